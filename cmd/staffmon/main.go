package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"barmenu-backend/staffclient"
	"barmenu-backend/utils"
)

// staffmon is a terminal staff dashboard: initial bulk fetch, realtime
// updates over the staff channel, periodic resync with the same guard the
// web dashboard uses.
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "backend base URL")
	device := flag.String("device", "staffmon", "device label shown in server logs")
	resyncEvery := flag.Duration("resync", 60*time.Second, "periodic resync interval")
	flag.Parse()

	utils.InitLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := staffclient.New(*baseURL, *device)
	client.OnChange = func() { render(client) }

	if !client.Healthy(ctx) {
		utils.ErrorLogger.Fatalf("backend at %s is not healthy", *baseURL)
	}
	if err := client.Bootstrap(ctx); err != nil {
		utils.ErrorLogger.Fatalf("initial fetch: %v", err)
	}
	if err := client.Connect(ctx); err != nil {
		utils.ErrorLogger.Fatalf("connect: %v", err)
	}
	defer client.Close()

	go func() {
		ticker := time.NewTicker(*resyncEvery)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := client.OnVisible(ctx); err != nil {
					utils.ErrorLogger.Printf("resync: %v", err)
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	render(client)
	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		utils.ErrorLogger.Fatalf("connection lost: %v", err)
	}
}

func render(client *staffclient.Client) {
	fmt.Print("\033[H\033[2J")
	fmt.Printf("== Orders (today) ==\n")
	for _, o := range client.State.Orders() {
		fmt.Printf("  #%-3d table %-3d %-10s %8.2f BGN\n",
			o.OrderNumber, o.TableNumber, o.Status, o.TotalBGN)
	}
	fmt.Printf("\n== Waiter calls ==\n")
	for _, wc := range client.State.Calls() {
		fmt.Printf("  table %-3d %-13s %s\n", wc.TableNumber, wc.CallType, wc.Status)
	}

	popups := client.Queue.Visible()
	if len(popups) > 0 {
		fmt.Printf("\n== Alerts (%d", len(popups))
		if n := client.Queue.Len(); n > len(popups) {
			fmt.Printf(" of %d", n)
		}
		fmt.Print(") ==\n")
		for _, p := range popups {
			marker := " "
			if p.Urgent {
				marker = "!"
			}
			fmt.Printf(" %s %s - %s\n", marker, p.Title, p.Body)
		}
	}
}
