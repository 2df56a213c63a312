package kafka

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"eventy/pkg/logger"
)

func newCapturedLogger(buf *bytes.Buffer) *logger.Logger {
	return logger.New(logger.Config{
		Level:   "debug",
		Format:  logger.JSON,
		Output:  buf,
		Service: "test",
	})
}

func TestNewProducer_RequiresBrokersAndTopic(t *testing.T) {
	log := newCapturedLogger(&bytes.Buffer{})

	if _, err := NewProducer(nil, "bookings", log); err == nil {
		t.Error("expected an error for empty broker list")
	}
	if _, err := NewProducer([]string{"localhost:9092"}, "", log); err == nil {
		t.Error("expected an error for empty topic")
	}
}

func TestNewProducer_ForwardsWriterDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	log := newCapturedLogger(&buf)

	producer, err := NewProducer([]string{"localhost:9092"}, "bookings", log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if producer.writer.Logger == nil || producer.writer.ErrorLogger == nil {
		t.Fatal("writer diagnostics are not wired to the logger")
	}

	producer.writer.ErrorLogger.Printf("broker %s unreachable", "localhost:9092")
	if !strings.Contains(buf.String(), "broker localhost:9092 unreachable") {
		t.Errorf("error diagnostic not forwarded, log output: %s", buf.String())
	}

	producer.writer.Logger.Printf("batch of %d written", 3)
	if !strings.Contains(buf.String(), "batch of 3 written") {
		t.Errorf("debug diagnostic not forwarded, log output: %s", buf.String())
	}
}

func TestPublish_AfterCloseFails(t *testing.T) {
	log := newCapturedLogger(&bytes.Buffer{})

	producer, err := NewProducer([]string{"localhost:9092"}, "bookings", log)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := producer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if err := producer.Publish(context.Background(), Message{Key: "b1"}); err == nil {
		t.Error("expected an error publishing on a closed producer")
	}
}
