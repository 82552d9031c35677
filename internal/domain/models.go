package domain

import (
	"fmt"
	"net"
	"strconv"
)

// ServiceTarget is a named host:port endpoint probed for health.
type ServiceTarget struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Port int    `json:"port"`
}

// Addr returns host:port.
func (t ServiceTarget) Addr() string {
	return net.JoinHostPort(t.Host, strconv.Itoa(t.Port))
}

// BaseURL returns http://host:port
func (t ServiceTarget) BaseURL() string {
	return "http://" + t.Addr()
}

// Service describes one backend service of the local stack.
type Service struct {
	Name        string `json:"name" mapstructure:"name"`
	Port        int    `json:"port" mapstructure:"port"`
	Dir         string `json:"dir" mapstructure:"dir"`
	DisplayName string `json:"display_name" mapstructure:"display_name"`
}

func (s Service) Target(host string) ServiceTarget {
	return ServiceTarget{Name: s.Name, Host: host, Port: s.Port}
}

// Label is the display name, falling back to the plain name.
func (s Service) Label() string {
	if s.DisplayName != "" {
		return s.DisplayName
	}
	return s.Name
}

// WindowTitle is the terminal window title used by the launcher.
func (s Service) WindowTitle() string {
	return fmt.Sprintf("%s - Port %d", s.Label(), s.Port)
}

// Targets maps services to probe targets on host, preserving order.
func Targets(host string, services []Service) []ServiceTarget {
	out := make([]ServiceTarget, 0, len(services))
	for _, s := range services {
		out = append(out, s.Target(host))
	}
	return out
}

// DefaultServices is the stack layout used when no services are configured.
func DefaultServices() []Service {
	return []Service{
		{Name: "Auth Service", Port: 4001, Dir: "auth-service", DisplayName: "🔐 Auth Service"},
		{Name: "Cashback Service", Port: 4002, Dir: "cashback-budget-service", DisplayName: "💰 Cashback Service"},
		{Name: "Merchant Service", Port: 4003, Dir: "merchant-onboarding-service", DisplayName: "🏪 Merchant Service"},
		{Name: "Notification Service", Port: 4004, Dir: "notification-service", DisplayName: "🔔 Notification Service"},
		{Name: "Points Service", Port: 4005, Dir: "points-wallet-service", DisplayName: "⭐ Points Service"},
		{Name: "Referral Service", Port: 4006, Dir: "referral-service", DisplayName: "🎁 Referral Service"},
		{Name: "Social Service", Port: 4007, Dir: "social-features-service", DisplayName: "👥 Social Service"},
	}
}
