package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	m "vcrm.dev/pkg/vcrm/internal/model"
)

const lensSource = `import pytest


@pytest.mark.vcr()
def test_login(client):
    assert client.login()


@vcr.use_cassette('shared/logout.yaml')
def test_logout(client):
    pass
`

func TestLensProvider_Provide(t *testing.T) {
	source := m.Source{Path: "tests/test_auth.py", BaseName: "test_auth"}
	roots := m.RootContext{ProjectMarkerDir: "/proj", CassetteRoot: "cassettes"}

	lens, err := NewLensProvider(NewScanner()).Provide(context.Background(), source, lensSource, roots)
	require.NoError(t, err)

	require.Len(t, lens.References, 2)
	require.Len(t, lens.Actions, 4)
	assert.Equal(t, source, lens.Source)

	kinds := []m.ActionKind{m.ActionShow, m.ActionDelete, m.ActionShow, m.ActionDelete}
	for i, action := range lens.Actions {
		assert.Equal(t, kinds[i], action.Kind)
		assert.Equal(t, action.Kind.Title(), action.Title)
		assert.Equal(t, "cassettes", action.CassetteRoot)
		assert.Equal(t, m.Path("/proj"), action.ProjectMarkerDir)
		assert.Equal(t, source.Path, action.Source)
	}

	assert.Equal(t, "test_auth/test_login.yaml", lens.Actions[0].Reference.FixturePath)
	assert.Equal(t, 3, lens.Actions[0].Reference.AnchorLine)
	assert.Equal(t, "shared/logout.yaml", lens.Actions[2].Reference.FixturePath)
	assert.Equal(t, "📼 Show cassette", lens.Actions[0].Title)
	assert.Equal(t, "📼 Delete cassette", lens.Actions[1].Title)
}

func TestLensProvider_Provide_BlankCassetteRoot(t *testing.T) {
	source := m.Source{Path: "tests/test_auth.py", BaseName: "test_auth"}

	for _, root := range []string{"", "   ", "\t\n"} {
		lens, err := NewLensProvider(NewScanner()).Provide(context.Background(), source, lensSource, m.RootContext{ProjectMarkerDir: "/proj", CassetteRoot: root})
		require.NoError(t, err)

		assert.Empty(t, lens.Actions, "cassette root %q", root)
		assert.Len(t, lens.References, 2, "the scanner still runs")
	}
}

func TestLensProvider_Provide_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lens, err := NewLensProvider(NewScanner()).Provide(ctx, m.Source{BaseName: "test_auth"}, lensSource, m.RootContext{CassetteRoot: "cassettes"})
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, lens.Actions)
}
