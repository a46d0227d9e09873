// This file is a helper for running tests with testcontainers.
// It is used by the integration tests and by cmd/testcontainers as a standalone executable.
// Expects environment variables to be loaded from .env files.
//

package helpers

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/build"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/client"
	"github.com/docker/go-connections/nat"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/localsite/planboard/data"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/network"
	"github.com/testcontainers/testcontainers-go/wait"
)

type TestContainers struct {
	Network                   *testcontainers.DockerNetwork
	DBContainer               testcontainers.Container
	PlanboardContainer        testcontainers.Container
	PlanboardBuilderContainer testcontainers.Container
}

func (tc *TestContainers) Terminate(t *testing.T) {
	ctx := context.Background()
	if tc.PlanboardContainer != nil {
		if err := tc.PlanboardContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Planboard: %v", err)
		}
	}
	if tc.PlanboardBuilderContainer != nil {
		if err := tc.PlanboardBuilderContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate Planboard Builder: %v", err)
		}
	}
	if tc.DBContainer != nil {
		if err := tc.DBContainer.Terminate(ctx); err != nil {
			logMessage(t, "Failed to terminate MariaDB: %v", err)
		}
	}
	if tc.Network != nil {
		if err := tc.Network.Remove(ctx); err != nil {
			logMessage(t, "Failed to remove network: %v", err)
		}
	}
}

// CreateAllTestContainers starts the MariaDB mirror database and the planboard
// service on a shared network. The service image is built from the repo
// Dockerfile unless an image named planboard-test:latest already exists.
func CreateAllTestContainers(t *testing.T) (*TestContainers, error) {
	ctx := context.Background()
	testContainers := &TestContainers{}

	// Create a network
	nw, err := network.New(ctx)
	if err != nil {
		exitWithError(t, err, "Failed to create network")
	}
	testContainers.Network = nw
	networkName := nw.Name

	// Create and start the Database container
	dbNetworkName := getEnvDefault("DB_HOST", "mariadb")
	tcpDbPort, err := nat.NewPort("tcp", getEnvDefault("DB_PORT", "3306"))
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to create DB port")
	}
	dbContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        getEnvDefault("DB_IMAGE", "mariadb:11"),
			ExposedPorts: []string{string(tcpDbPort)},
			Env: map[string]string{
				"MYSQL_ROOT_PASSWORD": getEnvDefault("DB_ROOT_PASSWORD", "rootpass"),
				"MYSQL_DATABASE":      getEnvDefault("DB_DATABASE", "planboard"),
				"MYSQL_USER":          getEnvDefault("DB_USER", "planboard"),
				"MYSQL_PASSWORD":      getEnvDefault("DB_PASSWORD", "planboard"),
			},
			WaitingFor: wait.ForListeningPort(tcpDbPort).WithStartupTimeout(60 * time.Second),
			Networks:   []string{networkName},
			NetworkAliases: map[string][]string{
				networkName: {dbNetworkName},
			},
		},
		Started: true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start Database")
	}
	testContainers.DBContainer = dbContainer

	// Initialize the mirror schema
	dbHost, _ := dbContainer.Host(ctx)
	dbPort, _ := dbContainer.MappedPort(ctx, tcpDbPort)
	if err := PerformMariaDBInit(t, dbHost, dbPort.Port()); err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to initialize database")
	}

	imageName := "planboard-test:latest"

	// Check if image exists
	haveImage, err := imageExists(ctx, imageName)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to check if image exists")
	}

	planboardPortNumber := getEnvDefault("PORT", "3000")
	tcpPlanboardPort, err := nat.NewPort("tcp", planboardPortNumber)
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to create Planboard port")
	}

	// Create Planboard container request (we add to it later)
	planboardContainerRequest := testcontainers.ContainerRequest{
		ExposedPorts: []string{string(tcpPlanboardPort)},
		Env: map[string]string{
			"PORT":                planboardPortNumber,
			"DB_TYPE":             "mysql",
			"DB_HOST":             dbNetworkName,
			"DB_PORT":             getEnvDefault("DB_PORT", "3306"),
			"DB_DATABASE":         getEnvDefault("DB_DATABASE", "planboard"),
			"DB_USER":             getEnvDefault("DB_USER", "planboard"),
			"DB_PASSWORD":         getEnvDefault("DB_PASSWORD", "planboard"),
			"DB_CONNECTION_LIMIT": getEnvDefault("DB_CONNECTION_LIMIT", "5"),
			"UPSTREAM_API_URL":    os.Getenv("UPSTREAM_API_URL"),
			"UPSTREAM_AUTH_URL":   os.Getenv("UPSTREAM_AUTH_URL"),
			"UPSTREAM_API_TOKEN":  getEnvDefault("UPSTREAM_API_TOKEN", "test-token"),
			"INTERNAL_SECRET":     getEnvDefault("INTERNAL_SECRET", "test-secret"),
		},
		WaitingFor: wait.ForHTTP("/metrics").WithPort(tcpPlanboardPort).WithStartupTimeout(30 * time.Second),
		Networks:   []string{networkName},
	}

	if !haveImage {
		// Build the Planboard builder image and add fromDockerfile to the container request
		planboardReaperSessionID := uuid.New().String()

		planboardBuildArgs := map[string]*string{
			"RESOURCE_REAPER_SESSION_ID": &planboardReaperSessionID,
		}

		buildContext := os.Getenv("TESTCONTAINERS_BUILD_CONTEXT")
		if buildContext == "" {
			buildContext = "../.."
		}

		logMessage(t, "Image %s does not exist, building...", imageName)
		planboardBuilderContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				FromDockerfile: testcontainers.FromDockerfile{
					Context:    buildContext,
					Dockerfile: "Dockerfile",
					Repo:       "planboard-test-builder",
					Tag:        "latest",
					BuildArgs:  planboardBuildArgs,
					BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
						opts.Target = "builder"
					},
					PrintBuildLog: true,
				},
			},
			Started: false,
		})
		if err != nil {
			testContainers.Terminate(t)
			exitWithError(t, err, "Failed to build planboard-test-builder")
		}
		testContainers.PlanboardBuilderContainer = planboardBuilderContainer

		imageNameParts := strings.Split(imageName, ":")
		planboardContainerRequest.FromDockerfile = testcontainers.FromDockerfile{
			Context:    buildContext,
			Dockerfile: "Dockerfile",
			Repo:       imageNameParts[0],
			Tag:        imageNameParts[1],
			KeepImage:  true, // Keep the image so we can reuse it
			BuildArgs:  planboardBuildArgs,
			BuildOptionsModifier: func(opts *build.ImageBuildOptions) {
				opts.Target = "runtime"
			},
			PrintBuildLog: true,
		}
	} else {
		// Add Image to the container request to reuse the existing image
		logMessage(t, "Image %s exists, reusing...", imageName)
		planboardContainerRequest.Image = imageName
	}

	// Create and start the Planboard container
	planboardContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: planboardContainerRequest,
		Started:          true,
	})
	if err != nil {
		testContainers.Terminate(t)
		exitWithError(t, err, "Failed to start Planboard")
	}
	testContainers.PlanboardContainer = planboardContainer

	// Log the localhost and mapped ports for test processes
	planboardHost, _ := planboardContainer.Host(ctx)
	planboardPort, _ := planboardContainer.MappedPort(ctx, tcpPlanboardPort)
	logMessage(t, "BASE_URL=%s:%s", planboardHost, planboardPort.Port())

	logMessage(t, "Planboard testcontainer started successfully")
	return testContainers, nil
}

// PerformMariaDBInit waits for the database to accept connections and creates
// the mirror tables from the embedded DDL.
func PerformMariaDBInit(t *testing.T, dbHost, dbPort string) error {
	dsn := fmt.Sprintf("root:%s@tcp(%s:%s)/%s",
		getEnvDefault("DB_ROOT_PASSWORD", "rootpass"), dbHost, dbPort,
		getEnvDefault("DB_DATABASE", "planboard"))
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return fmt.Errorf("failed to connect to MariaDB for setup: %w", err)
	}
	defer db.Close()

	// Wait for connection to be really ready
	for i := 0; i < 30; i++ {
		err = db.Ping()
		if err == nil {
			break
		}
		time.Sleep(1 * time.Second)
	}
	if err != nil {
		return fmt.Errorf("MariaDB not ready after 30 seconds: %w", err)
	}

	if err := executeSQL(db, data.InitdbMariaDBTables); err != nil {
		return fmt.Errorf("failed to execute tables init sql: %w", err)
	}
	return nil
}

func executeSQL(db *sql.DB, sqlText string) error {
	lines := strings.Split(sqlText, "\n")

	var ncls []string
	for _, l := range lines {
		ncls = append(ncls, excludeComment(l))
	}

	l := strings.Join(ncls, "")
	queries := strings.Split(l, ";")
	queries = queries[:len(queries)-1]

	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			return fmt.Errorf("%s : when executing > %s", err.Error(), q)
		}
	}
	return nil
}

// excludeComment strips a trailing "--" sql comment, honoring quoted strings.
func excludeComment(line string) string {
	d := "\""
	s := "'"
	c := "--"

	var nc string
	ck := line
	mx := len(line) + 1

	for {
		if len(ck) == 0 {
			return nc
		}

		di := strings.Index(ck, d)
		si := strings.Index(ck, s)
		ci := strings.Index(ck, c)

		if di < 0 {
			di = mx
		}
		if si < 0 {
			si = mx
		}
		if ci < 0 {
			ci = mx
		}

		var ei int

		if di < si && di < ci {
			nc += ck[:di+1]
			ck = ck[di+1:]
			ei = strings.Index(ck, d)
		} else if si < di && si < ci {
			nc += ck[:si+1]
			ck = ck[si+1:]
			ei = strings.Index(ck, s)
		} else if ci < di && ci < si {
			return nc + ck[:ci]
		} else {
			return nc + ck
		}

		nc += ck[:ei+1]
		ck = ck[ei+1:]
	}
}

func imageExists(ctx context.Context, imageName string) (bool, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return false, err
	}
	defer cli.Close()

	images, err := cli.ImageList(ctx, image.ListOptions{})
	if err != nil {
		return false, err
	}

	for _, img := range images {
		for _, tag := range img.RepoTags {
			if tag == imageName {
				return true, nil
			}
		}
	}

	return false, nil
}

func getEnvDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func exitWithError(t *testing.T, err error, msg string) {
	if t != nil {
		t.Fatalf(msg+": %v", err)
	} else {
		fmt.Printf(msg+": %v\n", err)
		os.Exit(1)
	}
}

func logMessage(t *testing.T, format string, args ...any) {
	if t != nil {
		t.Logf(format, args...)
	} else {
		log.Printf(format, args...)
	}
}
