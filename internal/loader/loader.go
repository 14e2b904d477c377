// Package loader parses service topology snapshots from JSON or YAML into
// the raw inputs of topology.Build.
//
// Parsing is strict where the analysis backend is authoritative (malformed
// records are an error, not a silent drop) while referential consistency
// (edges pointing at unknown services) is left to topology normalization,
// which filters silently.
package loader

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"smallworld/internal/topology"
)

// Service is one service record in a snapshot.
type Service struct {
	Name        string            `json:"name" yaml:"name"`
	Replicas    int               `json:"replicas,omitempty" yaml:"replicas,omitempty"`
	Tags        []string          `json:"tags,omitempty" yaml:"tags,omitempty"`
	Criticality string            `json:"criticality,omitempty" yaml:"criticality,omitempty"`
	Zone        string            `json:"zone,omitempty" yaml:"zone,omitempty"`
	Metrics     *topology.Metrics `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

// Edge is one dependency record in a snapshot.
type Edge struct {
	From     string  `json:"from" yaml:"from"`
	To       string  `json:"to" yaml:"to"`
	CallRate float64 `json:"call_rate" yaml:"call_rate"`
	P50      float64 `json:"p50" yaml:"p50"`
}

// Shortcut is one recommended shortcut pair.
type Shortcut struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Snapshot is a complete topology snapshot as delivered by the analysis
// backend.
type Snapshot struct {
	Services  []Service  `json:"services" yaml:"services"`
	Edges     []Edge     `json:"edges" yaml:"edges"`
	Shortcuts []Shortcut `json:"shortcuts,omitempty" yaml:"shortcuts,omitempty"`
}

// LoadFile reads and parses a snapshot, picking the format from the file
// extension (.yaml/.yml are YAML, everything else JSON).
func LoadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open topology file: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(f)
	default:
		return ParseJSON(f)
	}
}

// ParseJSON parses a JSON snapshot.
func ParseJSON(r io.Reader) (*Snapshot, error) {
	var snap Snapshot
	if err := json.NewDecoder(r).Decode(&snap); err != nil {
		return nil, fmt.Errorf("parse topology JSON: %w", err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

// ParseYAML parses a YAML snapshot.
func ParseYAML(r io.Reader) (*Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read topology YAML: %w", err)
	}
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("parse topology YAML: %w", err)
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return &snap, nil
}

func (s *Snapshot) validate() error {
	for i, svc := range s.Services {
		if svc.Name == "" {
			return fmt.Errorf("service %d: name must not be empty", i)
		}
		if svc.Replicas < 0 {
			return fmt.Errorf("service %q: replicas must not be negative", svc.Name)
		}
	}
	for i, e := range s.Edges {
		if e.From == "" || e.To == "" {
			return fmt.Errorf("edge %d: from and to must not be empty", i)
		}
		if e.From == e.To {
			return fmt.Errorf("edge %d: self-loop %s -> %s", i, e.From, e.To)
		}
		if e.CallRate < 0 {
			return fmt.Errorf("edge %s -> %s: call_rate must not be negative", e.From, e.To)
		}
		if e.P50 < 0 {
			return fmt.Errorf("edge %s -> %s: p50 must not be negative", e.From, e.To)
		}
	}
	for i, p := range s.Shortcuts {
		if p.From == "" || p.To == "" {
			return fmt.Errorf("shortcut %d: from and to must not be empty", i)
		}
	}
	return nil
}

// Graph normalizes the snapshot into a topology graph.
func (s *Snapshot) Graph() *topology.Graph {
	nodes := make([]topology.Node, 0, len(s.Services))
	for _, svc := range s.Services {
		nodes = append(nodes, topology.Node{
			ID:      svc.Name,
			Name:    svc.Name,
			Metrics: svc.Metrics,
		})
	}

	edges := make([]topology.Edge, 0, len(s.Edges))
	for _, e := range s.Edges {
		edges = append(edges, topology.Edge{
			SourceID:   e.From,
			TargetID:   e.To,
			CallRate:   e.CallRate,
			LatencyP50: e.P50,
		})
	}

	pairs := make([]topology.Pair, 0, len(s.Shortcuts))
	for _, p := range s.Shortcuts {
		pairs = append(pairs, topology.Pair{Source: p.From, Target: p.To})
	}

	return topology.Build(nodes, edges, pairs)
}
