package actor_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/skirmish/internal/game/actor"
)

func TestLoadTemplates_RealContent(t *testing.T) {
	tmpls, err := actor.LoadTemplates("../../../content/actors")
	require.NoError(t, err)
	require.Len(t, tmpls, 4)
	assert.Equal(t, "bandit", tmpls[0].ID)
	assert.Equal(t, "vanguard", tmpls[3].ID)
	for _, tm := range tmpls {
		assert.NoError(t, tm.Validate(), tm.ID)
	}
}

func TestTemplate_Validate(t *testing.T) {
	cases := map[string]actor.Template{
		"empty id":      {Level: 1},
		"zero level":    {ID: "x"},
		"unknown kind":  {ID: "x", Level: 1, Kind: "boss"},
		"derived attr":  {ID: "x", Level: 1, Primaries: map[string]float64{"armor": 3}},
		"negative attr": {ID: "x", Level: 1, Primaries: map[string]float64{"strength": -1}},
	}
	for name, tm := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, tm.Validate())
		})
	}
	ok := actor.Template{ID: "x", Level: 2, Kind: "player", Primaries: map[string]float64{"strength": 14}}
	assert.NoError(t, ok.Validate())
}

func TestLoadTemplates_RejectsUnknownFields(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "x.yaml"), []byte("id: x\nlevel: 1\nhp: 40\n"), 0644))
	_, err := actor.LoadTemplates(dir)
	assert.Error(t, err)
}

func TestLoadTemplates_MissingDir(t *testing.T) {
	_, err := actor.LoadTemplates(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}
