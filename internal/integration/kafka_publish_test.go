//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tckafka "github.com/testcontainers/testcontainers-go/modules/kafka"

	"github.com/couchcryptid/incident-insights/internal/adapter/kafka"
	"github.com/couchcryptid/incident-insights/internal/config"
	"github.com/couchcryptid/incident-insights/internal/domain"
	"github.com/couchcryptid/incident-insights/internal/ingest"
	"github.com/couchcryptid/incident-insights/internal/observability"
)

const testSinkTopic = "test-incident-records"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// startKafka runs a single-broker Kafka container and returns its advertised
// broker address.
func startKafka(ctx context.Context, t *testing.T) string {
	t.Helper()

	ctr, err := tckafka.Run(ctx, "confluentinc/confluent-local:7.5.0",
		tckafka.WithClusterID("test-cluster"))
	require.NoError(t, err, "start kafka container")
	t.Cleanup(func() {
		if err := ctr.Terminate(context.Background()); err != nil {
			t.Logf("terminate kafka container: %v", err)
		}
	})

	brokers, err := ctr.Brokers(ctx)
	require.NoError(t, err, "resolve broker addresses")
	require.NotEmpty(t, brokers)
	return brokers[0]
}

func createTopic(t *testing.T, broker, topic string) {
	t.Helper()

	conn, err := kafkago.Dial("tcp", broker)
	require.NoError(t, err, "dial broker")
	defer conn.Close() //nolint:errcheck

	controller, err := conn.Controller()
	require.NoError(t, err, "resolve controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, strconv.Itoa(controller.Port)))
	require.NoError(t, err, "dial controller")
	defer controllerConn.Close() //nolint:errcheck

	require.NoError(t, controllerConn.CreateTopics(kafkago.TopicConfig{
		Topic:             topic,
		NumPartitions:     1,
		ReplicationFactor: 1,
	}))
}

// writeFixtureCSV writes a small incident CSV and returns its path.
func writeFixtureCSV(t *testing.T) string {
	t.Helper()

	content := "arrest_date,latitude,longitude,ofns_desc,arrest_boro,arrest_precinct\n" +
		"2020-01-06T15:30:00,40.7128,-74.0060,ROBBERY,M,14\n" +
		"2020-02-14T02:00:00,40.6782,-73.9442,ASSAULT 3 & RELATED OFFENSES,K,77\n" +
		"2020-03-01T23:10:00,40.8448,-73.8648,DANGEROUS DRUGS,B,46\n"

	path := filepath.Join(t.TempDir(), "arrests.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestPublishRoundTrip loads a CSV fixture, publishes every record through
// the writer, and consumes the sink topic to verify keys, headers, and
// payload contents survive the trip.
func TestPublishRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testSinkTopic)

	cfg := &config.Config{
		KafkaBrokers:   []string{broker},
		KafkaSinkTopic: testSinkTopic,
	}

	loader := ingest.NewLoader(discardLogger(), observability.NewMetricsForTesting())
	ds, err := loader.Load(writeFixtureCSV(t))
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())
	require.Empty(t, ds.Skipped)

	writer := kafka.NewWriter(cfg, discardLogger())
	t.Cleanup(func() { _ = writer.Close() })

	require.NoError(t, writer.PublishBatch(ctx, ds.Records, ds.LoadedAt))

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testSinkTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	byID := map[string]domain.Record{}
	for _, rec := range ds.Records {
		byID[rec.ID] = rec
	}

	for i := 0; i < ds.Len(); i++ {
		readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
		msg, err := consumer.ReadMessage(readCtx)
		readCancel()
		require.NoError(t, err, "read from sink topic")

		want, ok := byID[string(msg.Key)]
		require.True(t, ok, "unexpected key %q", msg.Key)
		delete(byID, string(msg.Key))

		var got domain.Record
		require.NoError(t, json.Unmarshal(msg.Value, &got))
		assert.Equal(t, want.Category, got.Category)
		assert.Equal(t, want.Region, got.Region)
		assert.Equal(t, want.MonthName, got.MonthName)
		assert.True(t, want.Timestamp.Equal(msg.Time), "message time should carry the incident timestamp")

		headers := make(map[string]string, len(msg.Headers))
		for _, h := range msg.Headers {
			headers[h.Key] = string(h.Value)
		}
		assert.Equal(t, want.Category, headers["category"])
		loadedAt, err := time.Parse(time.RFC3339, headers["loaded_at"])
		assert.NoError(t, err, "loaded_at should be valid RFC3339")
		assert.True(t, ds.LoadedAt.Truncate(time.Second).Equal(loadedAt))
	}
	assert.Empty(t, byID, "every loaded record should arrive on the sink topic")

	// No extra messages beyond the dataset.
	readCtx, readCancel := context.WithTimeout(ctx, 5*time.Second)
	_, err = consumer.ReadMessage(readCtx)
	readCancel()
	assert.Error(t, err, "expected no additional messages on sink topic")
}
