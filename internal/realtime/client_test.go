package realtime

import "testing"

func TestInboundRateLimitDropsBurstOverflow(t *testing.T) {
	c := NewClient("user_a", nil)

	allowed := 0
	for i := 0; i < inboundRPS*2; i++ {
		if c.allowInbound() {
			allowed++
		}
	}
	if allowed > inboundRPS {
		t.Fatalf("allowed %d events in one burst, limit is %d", allowed, inboundRPS)
	}
	if allowed == 0 {
		t.Fatalf("limiter rejected everything, burst of %d should pass", inboundRPS)
	}
}
