// Standalone runner for the planboard test containers: starts MariaDB with
// the mirror schema plus the service image and keeps both up until
// interrupted, so the stack can be poked manually or driven by external test
// processes. The mapped BASE_URL is logged once the service is reachable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/localsite/planboard/tests/helpers"
)

func main() {
	var envFilename string
	flag.StringVar(&envFilename, "f", "", "path to a .env file to load before starting")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Start the planboard test containers and keep them running until interrupted.\n\n"+
				"Usage: testcontainers [-f ENV_FILE_PATH]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if envFilename != "" {
		if err := godotenv.Load(envFilename); err != nil {
			log.Fatalf("Failed to load %s: %v", envFilename, err)
		}
		log.Printf("Loaded environment from %s", envFilename)
	}

	containers, err := helpers.CreateAllTestContainers(nil)
	if err != nil {
		log.Fatalf("Failed to create test containers: %v", err)
	}

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigs

	log.Printf("Received %v, terminating test containers...", sig)
	containers.Terminate(nil)
}
