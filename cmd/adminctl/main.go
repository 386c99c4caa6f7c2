package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"recruit/internal/client/api"
)

const usage = `adminctl drives the recruitment admin API.

Usage:
  adminctl -server URL -token TOKEN <command> [args]

Commands:
  list [track]        list applications, optionally one track
  get <id>            print one application
  delete <id>         delete one application
  delete-all          delete every application
  export [track]      write the CSV export to stdout
`

func main() {
	server := flag.String("server", "http://localhost:8080", "server base URL")
	token := flag.String("token", os.Getenv("RECRUIT_ADMIN_TOKEN"), "admin token (defaults to RECRUIT_ADMIN_TOKEN)")
	timeout := flag.Duration("timeout", 30*time.Second, "request timeout")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	bases := []string{*server + "/api", *server + "/server"}
	client := api.NewAdminClient(nil, bases, *token)

	switch args[0] {
	case "list":
		track := ""
		if len(args) > 1 {
			track = args[1]
		}
		apps, err := client.List(ctx, track)
		if err != nil {
			log.Fatalf("list failed: %v", err)
		}
		for _, app := range apps {
			fmt.Printf("%s\t%s\t%s\t%s\n", app.ID, app.Track, app.Form.Name, app.SubmittedAt.Format(time.RFC3339))
		}
		fmt.Fprintf(os.Stderr, "%d application(s)\n", len(apps))
	case "get":
		if len(args) != 2 {
			log.Fatal("get needs an application id")
		}
		app, err := client.Get(ctx, args[1])
		if err != nil {
			log.Fatalf("get failed: %v", err)
		}
		fmt.Printf("id:        %s\n", app.ID)
		fmt.Printf("track:     %s\n", app.Track)
		fmt.Printf("submitted: %s\n", app.SubmittedAt.Format(time.RFC3339))
		fmt.Printf("name:      %s\n", app.Form.Name)
		fmt.Printf("email:     %s\n", app.Form.Email)
		fmt.Printf("phone:     %s\n", app.Form.Phone)
	case "delete":
		if len(args) != 2 {
			log.Fatal("delete needs an application id")
		}
		if err := client.Delete(ctx, args[1]); err != nil {
			log.Fatalf("delete failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "deleted %s\n", args[1])
	case "delete-all":
		result, err := client.DeleteAll(ctx)
		if err != nil {
			log.Fatalf("delete-all failed: %v", err)
		}
		fmt.Fprintf(os.Stderr, "deleted %d, failed %d\n", result.Succeeded, result.Failed)
	case "export":
		track := ""
		if len(args) > 1 {
			track = args[1]
		}
		if err := client.ExportCSV(ctx, os.Stdout, track); err != nil {
			log.Fatalf("export failed: %v", err)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}
}
