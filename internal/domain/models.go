package domain

import "time"

type Edition string

const (
	Community  Edition = "community"
	Enterprise Edition = "enterprise"
)

// Request describes one instance to provision.
type Request struct {
	Version         string
	Edition         Edition
	Port            int
	AddonsPath      string
	EnterpriseToken string
}

// Instance is a provisioned docker-compose directory tracked in state.
type Instance struct {
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Edition   string    `json:"edition"`
	Port      int       `json:"port"`
	Path      string    `json:"path"`
	CreatedAt time.Time `json:"created_at"`
}
