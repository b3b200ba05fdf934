package main

import (
	"flag"

	"github.com/golang/glog"

	"github.com/notaris/notaris/internal/devserver"
	"github.com/notaris/notaris/internal/version"
)

func main() {
	// We need to parse flags for glog-related options to take effect
	flag.Parse()

	glog.Infof(
		"Starting Notaris dev API server -- version %s -- commit %s",
		version.Version(),
		version.Commit(),
	)

	config, err := devserver.GetConfigFromEnvironment()
	if err != nil {
		glog.Fatal(err)
	}

	server, err := devserver.NewServer(config)
	if err != nil {
		glog.Fatal(err)
	}

	glog.Fatal(server.ListenAndServe())
}
