package main

import (
	"context"
	"fmt"
	"os"

	"github.com/MKhiriev/go-time-sync/internal/client"
	"github.com/MKhiriev/go-time-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	app := client.NewApp(models.NewAppBuildInfo(buildVersion, buildDate, buildCommit))

	if err := app.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "timesync: %v\n", err)
		os.Exit(1)
	}
}
