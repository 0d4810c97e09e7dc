package tray

import (
	"errors"
	"testing"

	"github.com/battwatch/battwatch/internal/monitor"
)

type fakePublisher struct {
	topics   []string
	payloads []string
	err      error
}

func (p *fakePublisher) PublishRetained(topic string, payload []byte) error {
	p.topics = append(p.topics, topic)
	p.payloads = append(p.payloads, string(payload))
	return p.err
}

func TestTraySetIcon(t *testing.T) {
	pub := &fakePublisher{}
	tr := New(pub)

	tr.SetIcon(monitor.IconCritical)

	if len(pub.topics) != 1 || pub.topics[0] != "battwatch/ui/icon" {
		t.Errorf("topics = %v, want [battwatch/ui/icon]", pub.topics)
	}
	if pub.payloads[0] != "critical" {
		t.Errorf("payload = %q, want %q", pub.payloads[0], "critical")
	}
}

func TestTraySetTooltip(t *testing.T) {
	pub := &fakePublisher{}
	tr := New(pub)

	tr.SetTooltip("Razer Viper Ultimate: 80%")

	if len(pub.topics) != 1 || pub.topics[0] != "battwatch/ui/tooltip" {
		t.Errorf("topics = %v, want [battwatch/ui/tooltip]", pub.topics)
	}
	if pub.payloads[0] != "Razer Viper Ultimate: 80%" {
		t.Errorf("payload = %q", pub.payloads[0])
	}
}

func TestTrayPublishFailureIsSwallowed(t *testing.T) {
	pub := &fakePublisher{err: errors.New("broker down")}
	tr := New(pub)

	tr.SetIcon(monitor.IconNormal)
	tr.SetTooltip("Razer Viper Ultimate: 80%")

	if len(pub.topics) != 2 {
		t.Errorf("publish attempts = %d, want 2", len(pub.topics))
	}
}
