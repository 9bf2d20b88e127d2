// Package consul registers the service with a Consul agent so other
// services can discover it. Registration is optional.
package consul

import (
	"fmt"
	"log"
	"os"

	"github.com/hashicorp/consul/api"
)

type Client struct {
	client      *api.Client
	serviceName string
	servicePort int
}

func NewClient(host, serviceName string, servicePort int) (*Client, error) {
	config := api.DefaultConfig()
	config.Address = fmt.Sprintf("%s:8500", host)

	client, err := api.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create consul client: %w", err)
	}

	return &Client{
		client:      client,
		serviceName: serviceName,
		servicePort: servicePort,
	}, nil
}

// Register registers the service with an HTTP health check against
// /health.
func (c *Client) Register() error {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %w", err)
	}

	registration := &api.AgentServiceRegistration{
		ID:      fmt.Sprintf("%s-%s", c.serviceName, hostname),
		Name:    c.serviceName,
		Port:    c.servicePort,
		Address: hostname,
		Check: &api.AgentServiceCheck{
			HTTP:                           fmt.Sprintf("http://%s:%d/health", hostname, c.servicePort),
			Interval:                       "10s",
			Timeout:                        "3s",
			DeregisterCriticalServiceAfter: "30s",
		},
	}

	if err := c.client.Agent().ServiceRegister(registration); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	log.Printf("Service %s registered with Consul at %s:%d", c.serviceName, hostname, c.servicePort)
	return nil
}

func (c *Client) Deregister() error {
	hostname, err := os.Hostname()
	if err != nil {
		return fmt.Errorf("failed to get hostname: %w", err)
	}

	serviceID := fmt.Sprintf("%s-%s", c.serviceName, hostname)
	if err := c.client.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	log.Printf("Service %s deregistered from Consul", c.serviceName)
	return nil
}
