package common

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	mongoImage   = "mongo:7.0"
	mongoPort    = nat.Port("27017/tcp")
	mongoReplSet = "rs0"
)

// MongoContainer is a single node replica set, which multi-document
// transactions require.
type MongoContainer struct {
	container testcontainers.Container
	URI       string
}

func StartMongo(ctx context.Context) (*MongoContainer, error) {
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        mongoImage,
			ExposedPorts: []string{string(mongoPort)},
			Cmd:          []string{"--replSet", mongoReplSet, "--bind_ip_all"},
			WaitingFor:   wait.ForListeningPort(mongoPort).WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("start mongo container: %w", err)
	}
	m := &MongoContainer{container: container}

	initiate := fmt.Sprintf(`rs.initiate({_id: %q, members: [{_id: 0, host: "localhost:27017"}]})`, mongoReplSet)
	code, _, err := container.Exec(ctx, []string{"mongosh", "--quiet", "--eval", initiate})
	if err != nil || code != 0 {
		_ = m.Terminate(context.Background())
		return nil, fmt.Errorf("initiate replica set: exit %d: %v", code, err)
	}

	if err := waitForPrimary(ctx, container); err != nil {
		_ = m.Terminate(context.Background())
		return nil, err
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = m.Terminate(context.Background())
		return nil, fmt.Errorf("container host: %w", err)
	}
	port, err := container.MappedPort(ctx, mongoPort)
	if err != nil {
		_ = m.Terminate(context.Background())
		return nil, fmt.Errorf("container port: %w", err)
	}

	m.URI = fmt.Sprintf("mongodb://%s:%s/?directConnection=true", host, port.Port())
	return m, nil
}

func (m *MongoContainer) Terminate(ctx context.Context) error {
	if m.container == nil {
		return nil
	}
	return m.container.Terminate(ctx)
}

func waitForPrimary(ctx context.Context, container testcontainers.Container) error {
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		code, _, err := container.Exec(ctx, []string{
			"mongosh", "--quiet", "--eval", "quit(db.hello().isWritablePrimary ? 0 : 1)",
		})
		if err == nil && code == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(500 * time.Millisecond):
		}
	}
	return fmt.Errorf("replica set %s has no primary", mongoReplSet)
}
