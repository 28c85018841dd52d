package health

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
)

// KafkaChecker reports up when some broker answers and the topic has partitions.
type KafkaChecker struct {
	brokers []string
	topic   string
}

func NewKafkaChecker(brokers []string, topic string) *KafkaChecker {
	return &KafkaChecker{brokers: brokers, topic: topic}
}

func (c *KafkaChecker) Name() string {
	return "kafka"
}

func (c *KafkaChecker) Check(ctx context.Context) Result {
	var lastErr error
	for _, broker := range c.brokers {
		conn, err := kafka.DialContext(ctx, "tcp", broker)
		if err != nil {
			lastErr = err
			continue
		}
		partitions, err := conn.ReadPartitions(c.topic)
		_ = conn.Close()
		if err != nil {
			return Result{Status: StatusDown, Message: fmt.Sprintf("topic %s: %v", c.topic, err)}
		}
		if len(partitions) == 0 {
			return Result{Status: StatusDown, Message: fmt.Sprintf("topic %s has no partitions", c.topic)}
		}
		return Result{Status: StatusUp}
	}
	if lastErr != nil {
		return Result{Status: StatusDown, Message: "all brokers unreachable: " + lastErr.Error()}
	}
	return Result{Status: StatusDown, Message: "no brokers configured"}
}
