package cli

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/playerregistry/internal/api"
	"github.com/mcoot/playerregistry/internal/factory"
	"github.com/mcoot/playerregistry/internal/testutil"
)

type CLISuite struct {
	suite.Suite
	server *httptest.Server
}

func TestCLISuite(t *testing.T) {
	suite.Run(t, new(CLISuite))
}

func (s *CLISuite) SetupTest() {
	app := factory.NewTestApp()
	s.server = httptest.NewServer(api.NewRouter(api.RouterConfig{
		Logger:        testutil.NopLogger(),
		PlayerService: app.PlayerService,
	}))
}

func (s *CLISuite) TearDownTest() {
	s.server.Close()
}

// run executes playerctl against the test server, returning stdout and stderr
func (s *CLISuite) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--server", s.server.URL}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (s *CLISuite) create(name, experience string) Player {
	out, _, err := s.run("-o", "json", "player", "create",
		"--set", "name="+name,
		"--set", "title=Wanderer",
		"--set", "race=ELF",
		"--set", "profession=MAGE",
		"--set", "birthday=2005-06-15",
		"--set", "experience="+experience,
	)
	s.Require().NoError(err)

	var p Player
	s.Require().NoError(json.Unmarshal([]byte(out), &p))
	return p
}

func (s *CLISuite) TestHealth() {
	out, _, err := s.run("health")
	s.Require().NoError(err)
	s.Equal("Status: ok\n", out)
}

func (s *CLISuite) TestCreateComputesLevel() {
	p := s.create("Aria", "1000")

	s.Equal(int64(1), p.ID)
	s.Equal("Aria", p.Name)
	s.Equal(4, p.Level)
	s.Equal(500, p.UntilNextLevel)
	s.Equal("2005-06-15", birthdayText(p.Birthday))
}

func (s *CLISuite) TestCreateReportsValidationErrors() {
	_, _, err := s.run("player", "create", "--set", "name=Aria")
	s.Require().Error(err)
	s.Contains(err.Error(), "INVALID_REQUEST")
}

func (s *CLISuite) TestGetText() {
	s.create("Aria", "1000")

	out, _, err := s.run("player", "get", "1")
	s.Require().NoError(err)
	s.Contains(out, "Player: Aria (1)")
	s.Contains(out, "Level: 4 (500 to next)")
	s.Contains(out, "Banned: no")
}

func (s *CLISuite) TestGetUnknownPlayer() {
	_, _, err := s.run("player", "get", "42")
	s.Require().Error(err)
	s.Contains(err.Error(), "PLAYER_NOT_FOUND")
}

func (s *CLISuite) TestUpdate() {
	s.create("Aria", "1000")

	out, _, err := s.run("-o", "json", "player", "update", "1", "--set", "experience=5000", "--set", "banned=true")
	s.Require().NoError(err)

	var p Player
	s.Require().NoError(json.Unmarshal([]byte(out), &p))
	s.Equal(9, p.Level)
	s.True(p.Banned)
	s.Equal("Aria", p.Name)
}

func (s *CLISuite) TestListFiltersAndOrders() {
	s.create("Rogan", "100")
	s.create("Morgana", "300")
	s.create("Bryn", "200")

	out, _, err := s.run("-o", "json", "player", "list", "--filter", "name=an", "--order", "name")
	s.Require().NoError(err)

	var players []Player
	s.Require().NoError(json.Unmarshal([]byte(out), &players))
	s.Require().Len(players, 2)
	s.Equal("Morgana", players[0].Name)
	s.Equal("Rogan", players[1].Name)
}

func (s *CLISuite) TestListPages() {
	for _, name := range []string{"A", "B", "C", "D"} {
		s.create(name, "0")
	}

	out, _, err := s.run("-o", "json", "player", "list", "--page", "1", "--size", "3")
	s.Require().NoError(err)

	var players []Player
	s.Require().NoError(json.Unmarshal([]byte(out), &players))
	s.Require().Len(players, 1)
	s.Equal("D", players[0].Name)
}

func (s *CLISuite) TestListTable() {
	s.create("Aria", "1000")

	out, _, err := s.run("player", "list")
	s.Require().NoError(err)
	s.Contains(out, "ID")
	s.Contains(out, "PROFESSION")
	s.Contains(out, "Aria")
	s.Contains(out, "2005-06-15")
}

func (s *CLISuite) TestListEmpty() {
	out, _, err := s.run("player", "list")
	s.Require().NoError(err)
	s.Equal("No players\n", out)
}

func (s *CLISuite) TestCount() {
	s.create("Rogan", "100")
	s.create("Morgana", "300")

	out, _, err := s.run("player", "count", "--filter", "minExperience=200")
	s.Require().NoError(err)
	s.Equal("1\n", out)
}

func (s *CLISuite) TestDelete() {
	s.create("Aria", "0")

	out, _, err := s.run("player", "delete", "1")
	s.Require().NoError(err)
	s.Equal("Deleted player 1\n", out)

	_, _, err = s.run("player", "get", "1")
	s.Error(err)
}

func (s *CLISuite) TestVerboseTracesRequests() {
	_, stderr, err := s.run("-v", "health")
	s.Require().NoError(err)
	s.Contains(stderr, "> GET "+s.server.URL+"/rest/health")
	s.Contains(stderr, "< 200 OK")
}

func TestParseAssignments(t *testing.T) {
	params, err := parseAssignments([]string{
		"name=Aria",
		"title=a=b",
		"birthday=2010-01-01",
		"after=1262304000000",
		"name=Bryn",
	})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"name":     "Bryn",
		"title":    "a=b",
		"birthday": "1262304000000",
		"after":    "1262304000000",
	}, params)
}

func TestParseAssignmentsRejectsBarePairs(t *testing.T) {
	_, err := parseAssignments([]string{"name"})
	assert.Error(t, err)

	_, err = parseAssignments([]string{"=x"})
	assert.Error(t, err)
}
