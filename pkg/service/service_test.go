package service

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ethpandaops/panda-wheel/pkg/discord/mock"
	storemock "github.com/ethpandaops/panda-wheel/pkg/store/mock"
	"github.com/ethpandaops/panda-wheel/pkg/wheel"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/mock/gomock"
)

type testHelper struct {
	t          *testing.T
	log        *logrus.Logger
	localstack testcontainers.Container
	endpoint   string
	s3Client   *s3.Client
}

func newTestHelper(t *testing.T) *testHelper {
	t.Helper()

	return &testHelper{
		t:   t,
		log: logrus.New(),
	}
}

func (h *testHelper) setup(ctx context.Context) {
	h.t.Helper()

	// Start localstack container
	req := testcontainers.ContainerRequest{
		Image: "localstack/localstack:latest",
		Env: map[string]string{
			"SERVICES":              "s3",
			"DEFAULT_REGION":        "us-east-1",
			"EAGER_SERVICE_LOADING": "1",
		},
		ExposedPorts: []string{"4566/tcp"},
		WaitingFor: wait.ForAll(
			wait.ForLog("Ready."),
			wait.ForListeningPort("4566/tcp"),
		),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		h.t.Fatalf("Failed to start localstack: %v", err)
	}

	h.localstack = container

	// Get endpoint
	mappedPort, err := container.MappedPort(ctx, "4566")
	if err != nil {
		h.t.Fatalf("Failed to get mapped port: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		h.t.Fatalf("Failed to get host: %v", err)
	}

	h.endpoint = "http://" + net.JoinHostPort(host, mappedPort.Port())

	// Create S3 client.
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion("us-east-1"),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")),
	)
	if err != nil {
		h.t.Fatalf("Failed to create AWS config: %v", err)
	}

	h.s3Client = s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = true
		o.BaseEndpoint = aws.String(h.endpoint)
	})

	// Create test bucket
	if _, err = h.s3Client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String("test-bucket"),
	}); err != nil {
		h.t.Fatalf("Failed to create test bucket: %v", err)
	}

	// Wait a bit for S3 to be ready
	time.Sleep(2 * time.Second)
}

func (h *testHelper) teardown(ctx context.Context) {
	h.t.Helper()

	if h.localstack != nil {
		if err := h.localstack.Terminate(ctx); err != nil {
			h.t.Logf("Failed to terminate container: %v", err)
		}
	}
}

func (h *testHelper) createConfig() *Config {
	return &Config{
		HealthCheckAddress: "127.0.0.1:9191",
		MetricsAddress:     "127.0.0.1:9091",
		DiscordToken:       "test-discord-token",
		StoreBackend:       "s3",
		AccessKeyID:        "test",
		SecretAccessKey:    "test",
		S3Bucket:           "test-bucket",
		S3BucketPrefix:     "test",
		S3Region:           "us-east-1",
		S3EndpointURL:      h.endpoint,
	}
}

func memoryConfig(healthAddr, metricsAddr string) *Config {
	return &Config{
		HealthCheckAddress: healthAddr,
		MetricsAddress:     metricsAddr,
		DiscordToken:       "test-discord-token",
		StoreBackend:       "memory",
	}
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()

	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestService(t *testing.T) {
	ctx := context.Background()
	helper := newTestHelper(t)
	helper.setup(ctx)
	defer helper.teardown(ctx)

	t.Run("Start_And_Stop", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		cfg := helper.createConfig()
		svc, err := NewService(ctx, helper.log, cfg)
		require.NoError(t, err)

		// Replace the real bot with our mock
		mockBot := mock.NewMockBot(ctrl)

		// Set expectations
		mockBot.EXPECT().Start().Return(nil)
		mockBot.EXPECT().Stop().Return(nil)
		mockBot.EXPECT().GetSession().Return(nil).AnyTimes()
		mockBot.EXPECT().GetEngine().Return(svc.engine).AnyTimes()
		mockBot.EXPECT().GetRenderer().Return(svc.renderer).AnyTimes()

		svc.bot = mockBot

		// Start service
		err = svc.Start(ctx)
		require.NoError(t, err)

		// Small delay to ensure servers are ready
		time.Sleep(1 * time.Second)

		// Verify health endpoint is working
		status, _ := get(t, "http://127.0.0.1:9191/healthz")
		assert.Equal(t, http.StatusOK, status)

		// Verify metrics endpoint is working
		status, _ = get(t, "http://127.0.0.1:9091/metrics")
		assert.Equal(t, http.StatusOK, status)

		// Wheels written through the engine land in the bucket.
		_, err = svc.engine.AddSection(ctx, "guild-1", "Pizza", 100, "red")
		require.NoError(t, err)

		_, err = helper.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
			Bucket: aws.String("test-bucket"),
			Key:    aws.String("test/guilds/guild-1/wheel.json"),
		})
		require.NoError(t, err)

		assert.Equal(t, []string{storeHealthJob}, svc.scheduler.Jobs())

		// Stop service.
		require.NoError(t, svc.Stop(ctx))
	})
}

func TestServiceMemoryStore(t *testing.T) {
	ctx := context.Background()
	log := logrus.New()

	t.Run("Health_Reflects_Store", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, err := NewService(ctx, log, memoryConfig("127.0.0.1:9192", "127.0.0.1:9092"))
		require.NoError(t, err)

		mockBot := mock.NewMockBot(ctrl)
		mockBot.EXPECT().Start().Return(nil)
		mockBot.EXPECT().Stop().Return(nil)
		svc.bot = mockBot

		// Swap the store for one whose pings fail.
		repo := storemock.NewMockRepository(ctrl)
		repo.EXPECT().Ping(gomock.Any()).Return(errors.New("connection refused")).AnyTimes()
		repo.EXPECT().Close().Return(nil)
		svc.repo = repo

		require.NoError(t, svc.Start(ctx))

		time.Sleep(500 * time.Millisecond)

		status, body := get(t, "http://127.0.0.1:9192/healthz")
		assert.Equal(t, http.StatusServiceUnavailable, status)
		assert.Equal(t, "store unavailable", body)

		require.NoError(t, svc.Stop(ctx))
	})

	t.Run("Engine_Uses_Cache", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()

		svc, err := NewService(ctx, log, memoryConfig("127.0.0.1:9193", "127.0.0.1:9093"))
		require.NoError(t, err)

		_, err = svc.engine.AddSection(ctx, "guild-1", "Pizza", 60, "red")
		require.NoError(t, err)

		_, err = svc.engine.SpinWheel(ctx, "guild-1")

		var incomplete *wheel.IncompleteWheelError
		require.ErrorAs(t, err, &incomplete)
		assert.Equal(t, 1, svc.cache.Len())

		require.NoError(t, svc.repo.Close())
	})

	t.Run("Bot_Start_Failure", func(t *testing.T) {
		prometheus.DefaultRegisterer = prometheus.NewRegistry()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, err := NewService(ctx, log, memoryConfig("127.0.0.1:9194", "127.0.0.1:9094"))
		require.NoError(t, err)

		mockBot := mock.NewMockBot(ctrl)
		mockBot.EXPECT().Start().Return(errors.New("invalid token"))
		mockBot.EXPECT().Stop().Return(nil)
		svc.bot = mockBot

		err = svc.Start(ctx)
		require.ErrorContains(t, err, "failed to start discord bot")

		require.NoError(t, svc.Stop(ctx))
	})
}
