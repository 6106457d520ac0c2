package main

import (
	"log/slog"
	"os"

	"lifedashboard/connection"
)

func main() {
	if err := connection.StartServer(); err != nil {
		slog.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
