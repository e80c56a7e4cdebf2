package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ServiceType classifies a registered emergency/public service.
type ServiceType string

const (
	ServiceHospital ServiceType = "hospital"
	ServicePolice   ServiceType = "police"
	ServiceFire     ServiceType = "fire"
	ServicePharmacy ServiceType = "pharmacy"
	ServiceSchool   ServiceType = "school"
	ServiceOther    ServiceType = "other"
)

// KnownServiceType reports whether t names one of the registered service
// categories. Matching is case-insensitive.
func KnownServiceType(t string) bool {
	switch ServiceType(strings.ToLower(t)) {
	case ServiceHospital, ServicePolice, ServiceFire, ServicePharmacy, ServiceSchool, ServiceOther:
		return true
	}
	return false
}

// Service is a registered facility (hospital, police station, etc.).
type Service struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Type          ServiceType `json:"type"`
	Address       string      `json:"address"`
	Location      Coordinate  `json:"location"`
	ContactNumber string      `json:"contact_number,omitempty"`
	Rating        float64     `json:"rating"`
	CreatedAt     time.Time   `json:"created_at"`
}

// ServiceMatch pairs a service with its distance from a route corridor or
// a search center.
type ServiceMatch struct {
	Service    Service `json:"service"`
	DistanceKm float64 `json:"distance_km"`
}

// Route is a persisted travel route together with the services matched
// along its corridor at creation time.
type Route struct {
	ID          string            `json:"id"`
	UserID      string            `json:"-"`
	Origin      Coordinate        `json:"origin"`
	Destination Coordinate        `json:"destination"`
	DistanceKm  float64           `json:"distance_km"`
	DurationMin float64           `json:"duration_min"`
	Geometry    Polyline          `json:"geometry"`
	Steps       []json.RawMessage `json:"steps"`
	Services    []ServiceMatch    `json:"services"`
	CreatedAt   time.Time         `json:"created_at"`
}

// SearchHistory records a nearby search and its results.
type SearchHistory struct {
	ID        string         `json:"id"`
	UserID    string         `json:"-"`
	Query     string         `json:"query"`
	Center    Coordinate     `json:"center"`
	RadiusKm  float64        `json:"radius_km"`
	Results   []ServiceMatch `json:"results"`
	CreatedAt time.Time      `json:"created_at"`
}
