package loadbalancer

import (
	"net/http"
	"sync"
)

// LoadBalancer rotates round-robin over replica base urls of one backend
// service. The gateway asks it for the next target per proxied request.
type LoadBalancer struct {
	servers []string
	mu      sync.Mutex
	current int
}

func NewLoadBalancer(servers []string) *LoadBalancer {
	return &LoadBalancer{servers: servers}
}

// GetNextServer returns the next target in rotation.
func (lb *LoadBalancer) GetNextServer() string {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	server := lb.servers[lb.current]
	lb.current = (lb.current + 1) % len(lb.servers)
	return server
}

// ServeHTTP redirects the client to the next target directly, for setups
// that front replicas without a proxy hop.
func (lb *LoadBalancer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, lb.GetNextServer()+r.RequestURI, http.StatusTemporaryRedirect)
}
