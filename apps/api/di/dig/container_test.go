package dig_container

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/dig"

	echoapi "github.com/ShinzTer/phys-diary-sub000/apps/api/echo"
	"github.com/ShinzTer/phys-diary-sub000/core"
)

func TestNew(t *testing.T) {
	c := New()
	require.NoError(t, c.Decorate(func(*core.Config) *core.Config {
		return core.NewTestConfig()
	}))

	err := c.Invoke(func(conf *core.Config, server *echoapi.Server) {
		assert.Equal(t, core.EngineMemory, conf.Database.Engine)

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		server.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Welcome to PhysDiary API!", rec.Body.String())
	})
	require.NoError(t, err)

	var graph bytes.Buffer
	require.NoError(t, dig.Visualize(c, &graph))
	assert.Contains(t, graph.String(), "digraph")
}
