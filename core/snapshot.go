package core

import (
	"fmt"
	"os"

	"github.com/chainreactors/intruder/core/marker"
	"github.com/chainreactors/intruder/core/payload"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"sigs.k8s.io/yaml"
)

// Snapshot is the flat, serializable state of a session.
type Snapshot struct {
	Template  *template.Template `json:"template"`
	Positions marker.Positions   `json:"positions"`
	NextID    int                `json:"next_id"`
	Payloads  *payload.Set       `json:"payloads"`
	Mode      pkg.AttackMode     `json:"mode"`
	Options   SessionOptions     `json:"options"`
	Results   []*result.Result   `json:"results,omitempty"`
}

func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &Snapshot{
		Template:  s.Template.Clone(),
		Positions: s.positionsCopy(),
		NextID:    s.Model.NextID,
		Payloads:  s.Payloads,
		Mode:      s.Mode,
		Options:   s.Options,
		Results:   s.Results.All(),
	}
}

// Restore loads snap into the session. A snapshot whose positions disagree with
// its template is rejected.
func (s *Session) Restore(snap *Snapshot) error {
	if snap.Template == nil {
		return fmt.Errorf("snapshot without template")
	}
	model := &marker.Model{Positions: snap.Positions, NextID: snap.NextID}
	if err := model.Validate(snap.Template); err != nil {
		return err
	}
	if model.NextID <= 0 {
		model.NextID = 1
	}
	for _, p := range model.Positions {
		if p.ID >= model.NextID {
			model.NextID = p.ID + 1
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.Template = snap.Template.Clone()
	s.Model = model
	s.Payloads = snap.Payloads
	if s.Payloads == nil {
		s.Payloads = payload.List(nil)
	}
	s.Mode = snap.Mode
	if s.Mode == 0 {
		s.Mode = pkg.Sniper
	}
	s.Options = snap.Options
	s.Results.Replace(snap.Results)
	return nil
}

func SaveSession(filename string, s *Session) error {
	content, err := yaml.Marshal(s.Snapshot())
	if err != nil {
		return err
	}
	return os.WriteFile(filename, content, 0o644)
}

func LoadSession(filename string) (*Session, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{}
	if err := yaml.Unmarshal(content, snap); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	s := NewSession()
	if err := s.Restore(snap); err != nil {
		return nil, err
	}
	return s, nil
}
