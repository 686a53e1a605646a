package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/flightstack/govftp"
	"github.com/flightstack/govftp/pkg/config"
	"github.com/flightstack/govftp/pkg/ftp"
	"github.com/flightstack/govftp/pkg/httpapi"
	"github.com/flightstack/govftp/pkg/transport"
	log "github.com/sirupsen/logrus"
)

const dispatchPeriod = 20 * time.Millisecond

func main() {
	if os.Getenv("MAVFTP_DEBUGGING") == "1" {
		log.SetLevel(log.DebugLevel)
	}

	configPath := flag.String("config", "", "path to an INI configuration file (optional)")
	localAddr := flag.String("local", ":0", "local UDP address to bind")
	op := flag.String("op", "list", "operation: download|upload|remove|rename|mkdir|rmdir|compare|list")
	remotePath := flag.String("remote", "/", "remote path")
	localPath := flag.String("local-path", "", "local path (download destination folder or upload source file)")
	toPath := flag.String("to", "", "destination path for rename")
	httpAddr := flag.String("http", "", "address to serve the HTTP bridge on, e.g. :8080 (disabled if empty)")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.WithError(err).Fatal("mavftpctl: loading config")
		}
		cfg = loaded
	}
	if cfg.Client.Debug {
		log.SetLevel(log.DebugLevel)
	}

	udp, err := transport.DialUDP(*localAddr, cfg.Connection.Endpoint)
	if err != nil {
		log.WithError(err).Fatal("mavftpctl: dialing transport")
	}
	defer udp.Close()

	router := govftp.NewRouter(udp, cfg.Connection.OwnSystem, cfg.Connection.OwnComponent,
		cfg.Connection.TargetSystem, cfg.Connection.AutopilotComponent)
	scheduler := govftp.NewRealTimeScheduler()
	client := ftp.NewClient(router, scheduler, ftp.WithTimeout(cfg.Client.Timeout))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	go runDispatchLoop(ctx, client)
	go func() {
		if err := udp.Serve(ctx, client); err != nil {
			log.WithError(err).Warn("mavftpctl: transport serve loop exited")
		}
	}()

	if *httpAddr != "" {
		server := httpapi.NewServer(client, httpapi.WithOperationTimeout(30*time.Second))
		go func() {
			if err := server.ListenAndServe(*httpAddr); err != nil {
				log.WithError(err).Warn("mavftpctl: http bridge exited")
			}
		}()
	}

	if err := runOperation(ctx, client, *op, *remotePath, *localPath, *toPath); err != nil {
		log.WithError(err).Fatal("mavftpctl: operation failed")
	}
}

// runDispatchLoop calls DoWork on a steady cadence, the cyclic trigger the
// engine's dispatcher needs to start queued work (C5).
func runDispatchLoop(ctx context.Context, client *ftp.Client) {
	ticker := time.NewTicker(dispatchPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			client.Close()
			return
		case <-ticker.C:
			client.DoWork()
		}
	}
}

func runOperation(ctx context.Context, client *ftp.Client, op, remotePath, localPath, toPath string) error {
	switch op {
	case "download":
		progress, err := client.Download(ctx, remotePath, localPath)
		if err != nil {
			return err
		}
		fmt.Printf("downloaded %d/%d bytes\n", progress.BytesTransferred, progress.TotalBytes)
	case "upload":
		progress, err := client.Upload(ctx, localPath, remotePath)
		if err != nil {
			return err
		}
		fmt.Printf("uploaded %d/%d bytes\n", progress.BytesTransferred, progress.TotalBytes)
	case "remove":
		return client.Remove(ctx, remotePath)
	case "rename":
		return client.Rename(ctx, remotePath, toPath)
	case "mkdir":
		return client.CreateDir(ctx, remotePath)
	case "rmdir":
		return client.RemoveDir(ctx, remotePath)
	case "compare":
		identical, err := client.CompareFiles(ctx, localPath, remotePath)
		if err != nil {
			return err
		}
		fmt.Printf("identical: %v\n", identical)
	case "list":
		entries, err := client.ListDir(ctx, remotePath)
		if err != nil {
			return err
		}
		for _, e := range entries {
			fmt.Println(e)
		}
	default:
		return fmt.Errorf("mavftpctl: unknown operation %q", op)
	}
	return nil
}
