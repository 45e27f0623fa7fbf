package project

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/polynest/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	p := New()
	p.Name = "bracket-run"
	p.Inputs = []string{"bin.svg", "parts.dxf"}
	p.Config.PopulationSize = 25
	p.Config.ExploreConcave = true
	p.Bin = model.Bin{Bounds: model.Bounds{Width: 100, Height: 50}}
	p.Parts = []model.Part{
		model.NewPart("A", []model.Polygon{{
			Points: []model.Point2D{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 4}, {X: 0, Y: 4}},
			Closed: true,
		}}),
	}

	path := filepath.Join(t.TempDir(), "run", "project.json")
	require.NoError(t, Save(path, p))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Name, loaded.Name)
	assert.Equal(t, p.Inputs, loaded.Inputs)
	assert.Equal(t, p.Config, loaded.Config)
	assert.Equal(t, p.Bin.Bounds, loaded.Bin.Bounds)
	require.Len(t, loaded.Parts, 1)
	assert.Equal(t, p.Parts[0].ID, loaded.Parts[0].ID)
	assert.Nil(t, loaded.Result)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNewDefaults(t *testing.T) {
	p := New()
	assert.Equal(t, "Untitled", p.Name)
	assert.Equal(t, model.DefaultConfig(), p.Config)
}
