package goredis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/go-connections/nat"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/fx"

	"github.com/bridgekit-io/redisbridge/v1/driver"
)

// TestBasicCommands verifies the direct-mode command surface against a
// real server.
func TestBasicCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	host, port, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	var factory *Factory

	app := fx.New(
		FXModule,
		fx.Provide(
			func() Config { return Config{Host: host, Port: port} },
		),
		fx.Populate(&factory),
	)

	require.NoError(t, app.Start(ctx))
	defer app.Stop(ctx)

	conn, err := factory.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	t.Run("Set and Get", func(t *testing.T) {
		ok, err := conn.Set(ctx, "greeting", []byte("hello"), driver.SetOptions{})
		require.NoError(t, err)
		assert.True(t, ok)

		value, err := conn.Get(ctx, "greeting")
		require.NoError(t, err)
		assert.Equal(t, []byte("hello"), value)
	})

	t.Run("Get missing key", func(t *testing.T) {
		_, err := conn.Get(ctx, "absent")
		assert.ErrorIs(t, err, driver.ErrNil)
	})

	t.Run("Set conditions", func(t *testing.T) {
		ok, err := conn.Set(ctx, "nx-key", []byte("first"), driver.SetOptions{Condition: driver.SetIfAbsent})
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = conn.Set(ctx, "nx-key", []byte("second"), driver.SetOptions{Condition: driver.SetIfAbsent})
		require.NoError(t, err)
		assert.False(t, ok, "NX against an existing key must not write")

		value, err := conn.Get(ctx, "nx-key")
		require.NoError(t, err)
		assert.Equal(t, []byte("first"), value)
	})

	t.Run("Delete and Exists", func(t *testing.T) {
		_, err := conn.Set(ctx, "doomed", []byte("x"), driver.SetOptions{})
		require.NoError(t, err)

		n, err := conn.Exists(ctx, "doomed")
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		deleted, err := conn.Del(ctx, "doomed")
		require.NoError(t, err)
		assert.Equal(t, int64(1), deleted)

		n, err = conn.Exists(ctx, "doomed")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)
	})

	t.Run("Increment", func(t *testing.T) {
		value, err := conn.Incr(ctx, "counter")
		require.NoError(t, err)
		assert.Equal(t, int64(1), value)

		value, err = conn.IncrBy(ctx, "counter", 5)
		require.NoError(t, err)
		assert.Equal(t, int64(6), value)
	})

	t.Run("TTL", func(t *testing.T) {
		_, err := conn.Set(ctx, "expiring", []byte("x"), driver.SetOptions{TTL: time.Minute})
		require.NoError(t, err)

		ttl, err := conn.TTL(ctx, "expiring")
		require.NoError(t, err)
		assert.Greater(t, ttl, 50*time.Second)

		_, err = conn.Set(ctx, "forever", []byte("x"), driver.SetOptions{})
		require.NoError(t, err)

		ttl, err = conn.TTL(ctx, "forever")
		require.NoError(t, err)
		assert.Equal(t, driver.TTLPersistent, ttl)

		ttl, err = conn.TTL(ctx, "never-existed")
		require.NoError(t, err)
		assert.Equal(t, driver.TTLMissing, ttl)
	})

	t.Run("Wrong type", func(t *testing.T) {
		_, err := conn.LPush(ctx, "a-list", []byte("x"))
		require.NoError(t, err)

		_, err = conn.Incr(ctx, "a-list")
		assert.ErrorIs(t, err, driver.ErrWrongType)

		var cmdErr *driver.CommandError
		require.ErrorAs(t, err, &cmdErr)
		assert.Equal(t, "incr", cmdErr.Cmd)
	})

	t.Run("Collections", func(t *testing.T) {
		_, err := conn.HSet(ctx, "user:1", map[string][]byte{"name": []byte("ada"), "role": []byte("admin")})
		require.NoError(t, err)

		entries, err := conn.HGetAll(ctx, "user:1")
		require.NoError(t, err)
		assert.Equal(t, map[string][]byte{"name": []byte("ada"), "role": []byte("admin")}, entries)

		_, err = conn.SAdd(ctx, "tags", []byte("go"), []byte("redis"))
		require.NoError(t, err)

		ok, err := conn.SIsMember(ctx, "tags", []byte("go"))
		require.NoError(t, err)
		assert.True(t, ok)

		_, err = conn.ZAdd(ctx, "board",
			driver.ZMember{Member: []byte("ada"), Score: 12},
			driver.ZMember{Member: []byte("grace"), Score: 7},
		)
		require.NoError(t, err)

		members, err := conn.ZRangeWithScores(ctx, "board", 0, -1)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, []byte("grace"), members[0].Member, "ascending score order")
	})
}

// TestBatching verifies pipeline and transaction deferral semantics.
func TestBatching(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	host, port, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	factory, err := NewFactory(Config{Host: host, Port: port})
	require.NoError(t, err)
	defer factory.Close()

	t.Run("Pipeline", func(t *testing.T) {
		conn, err := factory.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.OpenPipeline())
		assert.True(t, conn.IsPipelined())

		n, err := conn.Incr(ctx, "pipe-counter")
		require.NoError(t, err)
		assert.Zero(t, n, "buffered command must return its zero value")

		_, err = conn.Get(ctx, "pipe-missing")
		require.NoError(t, err, "a key miss inside a pipeline is a value, not an error")

		_, err = conn.Set(ctx, "pipe-key", []byte("v"), driver.SetOptions{})
		require.NoError(t, err)

		results, err := conn.ClosePipeline(ctx)
		require.NoError(t, err)
		require.Len(t, results, 3)
		assert.Equal(t, int64(1), results[0])
		assert.Nil(t, results[1], "missing key resolves to the nil default")
		assert.Equal(t, true, results[2])

		assert.False(t, conn.IsPipelined())
	})

	t.Run("Transaction", func(t *testing.T) {
		conn, err := factory.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.Multi())
		assert.True(t, conn.IsQueueing())

		_, err = conn.Incr(ctx, "tx-counter")
		require.NoError(t, err)
		_, err = conn.Incr(ctx, "tx-counter")
		require.NoError(t, err)

		results, err := conn.Exec(ctx)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, int64(1), results[0])
		assert.Equal(t, int64(2), results[1])
	})

	t.Run("Discard", func(t *testing.T) {
		conn, err := factory.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		require.NoError(t, conn.Multi())
		_, err = conn.Incr(ctx, "discard-counter")
		require.NoError(t, err)
		require.NoError(t, conn.Discard())

		n, err := conn.Exists(ctx, "discard-counter")
		require.NoError(t, err)
		assert.Equal(t, int64(0), n, "discarded commands must not run")
	})

	t.Run("Batching mode errors", func(t *testing.T) {
		conn, err := factory.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		_, err = conn.Exec(ctx)
		assert.ErrorIs(t, err, driver.ErrNotBatching)

		require.NoError(t, conn.OpenPipeline())
		assert.ErrorIs(t, conn.Multi(), driver.ErrAlreadyBatching)

		_, err = conn.ClosePipeline(ctx)
		require.NoError(t, err)
	})
}

// TestWatchAndLock verifies the optimistic transaction and lock helpers.
func TestWatchAndLock(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	host, port, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	factory, err := NewFactory(Config{Host: host, Port: port})
	require.NoError(t, err)
	defer factory.Close()

	t.Run("Watch", func(t *testing.T) {
		conn, err := factory.Conn(ctx)
		require.NoError(t, err)
		_, err = conn.Set(ctx, "balance", []byte("100"), driver.SetOptions{})
		require.NoError(t, err)
		conn.Close()

		err = factory.Watch(ctx, func(watched driver.Conn) error {
			current, err := watched.Get(ctx, "balance")
			if err != nil {
				return err
			}
			n, err := strconv.Atoi(string(current))
			if err != nil {
				return err
			}

			if err := watched.Multi(); err != nil {
				return err
			}
			if _, err := watched.Set(ctx, "balance", []byte(strconv.Itoa(n-30)), driver.SetOptions{}); err != nil {
				return err
			}
			_, err = watched.Exec(ctx)
			return err
		}, "balance")
		require.NoError(t, err)

		conn, err = factory.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		value, err := conn.Get(ctx, "balance")
		require.NoError(t, err)
		assert.Equal(t, []byte("70"), value)
	})

	t.Run("Lock", func(t *testing.T) {
		lock, err := factory.AcquireLock(ctx, "job:nightly", 30*time.Second)
		require.NoError(t, err)

		_, err = factory.AcquireLock(ctx, "job:nightly", 30*time.Second)
		assert.ErrorIs(t, err, ErrLockNotAcquired)

		require.NoError(t, lock.Refresh(ctx))
		require.NoError(t, lock.Release(ctx))

		// Released, so it can be taken again.
		lock2, err := factory.AcquireLock(ctx, "job:nightly", 30*time.Second)
		require.NoError(t, err)
		require.NoError(t, lock2.Release(ctx))

		assert.ErrorIs(t, lock.Release(ctx), ErrLockNotHeld)
	})
}

// TestPubSub verifies publish and subscribe against a real server.
func TestPubSub(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	host, port, containerInstance := initializeRedis(ctx, t)
	defer func() {
		if err := containerInstance.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}()

	factory, err := NewFactory(Config{Host: host, Port: port})
	require.NoError(t, err)
	defer factory.Close()

	sub, err := factory.Subscribe(ctx, "orders")
	require.NoError(t, err)
	defer sub.Close()

	conn, err := factory.Conn(ctx)
	require.NoError(t, err)
	defer conn.Close()

	// Subscription setup races the first publish; retry until delivered.
	require.Eventually(t, func() bool {
		n, err := conn.Publish(ctx, "orders", []byte("o-1"))
		return err == nil && n > 0
	}, 10*time.Second, 100*time.Millisecond, "no subscriber registered")

	select {
	case msg := <-sub.Messages():
		assert.Equal(t, "orders", msg.Channel)
		assert.Equal(t, []byte("o-1"), msg.Payload)
	case <-time.After(10 * time.Second):
		t.Fatal("message was not delivered")
	}
}

func initializeRedis(ctx context.Context, t *testing.T) (string, int, testcontainers.Container) {
	hostPort, err := getFreePort()
	require.NoError(t, err)

	containerInstance, err := createRedisContainer(ctx, hostPort)
	require.NoError(t, err)

	port, err := containerInstance.MappedPort(ctx, "6379")
	require.NoError(t, err)

	host, err := containerInstance.Host(ctx)
	require.NoError(t, err)

	// Wait for Redis to be ready
	require.Eventually(t, func() bool {
		conn, err := net.DialTimeout("tcp", net.JoinHostPort(host, port.Port()), 2*time.Second)
		if err != nil {
			return false
		}
		_ = conn.Close()
		return true
	}, 30*time.Second, 500*time.Millisecond, "Redis port not ready")

	return host, port.Int(), containerInstance
}

func createRedisContainer(ctx context.Context, hostPort string) (testcontainers.Container, error) {
	portBindings := nat.PortMap{
		"6379/tcp": []nat.PortBinding{{HostPort: hostPort}},
	}

	req := testcontainers.ContainerRequest{
		Image: "redis:7-alpine",
		ExposedPorts: []string{
			"6379/tcp",
		},
		HostConfigModifier: func(cfg *container.HostConfig) {
			cfg.PortBindings = portBindings
		},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort("6379/tcp").WithStartupTimeout(30*time.Second),
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	}

	var containerInstance testcontainers.Container
	var lastErr error

	for attempt := 0; attempt < 3; attempt++ {
		containerInstance, lastErr = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		if lastErr == nil {
			return containerInstance, nil
		}

		if strings.Contains(lastErr.Error(), "docker.sock") {
			time.Sleep(time.Duration(attempt+1) * time.Second)
			continue
		}

		break
	}

	return nil, fmt.Errorf("failed to start Redis container after 3 attempts: %w", lastErr)
}

func getFreePort() (string, error) {
	l, err := net.Listen("tcp", ":0")
	if err != nil {
		return "", err
	}
	defer l.Close()
	addr := l.Addr().(*net.TCPAddr)
	return strconv.Itoa(addr.Port), nil
}
