package loadbalancer

import "testing"

func TestGetNextServerRotates(t *testing.T) {
	lb := NewLoadBalancer([]string{"http://a:4143", "http://b:4143"})

	got := []string{
		lb.GetNextServer(),
		lb.GetNextServer(),
		lb.GetNextServer(),
	}
	want := []string{"http://a:4143", "http://b:4143", "http://a:4143"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rotation step %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestSingleTarget(t *testing.T) {
	lb := NewLoadBalancer([]string{"http://only:4143"})
	for i := 0; i < 3; i++ {
		if s := lb.GetNextServer(); s != "http://only:4143" {
			t.Fatalf("got %s", s)
		}
	}
}
