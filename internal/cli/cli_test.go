package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/config"
)

func testDeps(strict bool) runtimeDeps {
	return runtimeDeps{
		loadConfig: func() (*config.Config, error) {
			return &config.Config{
				App:   config.AppConfig{Name: "support-desk", Env: "test"},
				Redis: config.RedisConfig{KeyPrefix: "supportdesk"},
				Validation: config.ValidationConfig{
					MinDescriptionLength:         10,
					CriticalMinDescriptionLength: 20,
				},
				Lifecycle: config.LifecycleConfig{StrictTransitions: strict},
				Notification: config.NotificationConfig{
					OpsAddress: "support@example.com",
					Channels:   []string{"email", "sms", "push", "chat"},
				},
			}, nil
		},
		newLogger: func(config.LoggerConfig) (*zap.Logger, error) { return zap.NewNop(), nil },
	}
}

func run(t *testing.T, deps runtimeDeps, input string, args ...string) string {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd(deps)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(args)
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestRootCmdStructure(t *testing.T) {
	cmd := NewRootCmd()
	assert.Equal(t, "supportdesk", cmd.Use)

	names := map[string]bool{}
	for _, sub := range cmd.Commands() {
		names[sub.Name()] = true
	}
	for _, expected := range []string{"shell", "demo", "channels", "metrics"} {
		assert.True(t, names[expected], "Missing command: %s", expected)
	}
	assert.NotNil(t, cmd.PersistentFlags().Lookup("no-color"))
	assert.NotNil(t, cmd.PersistentFlags().Lookup("strict"))
}

func TestChannelsCmd(t *testing.T) {
	out := run(t, testDeps(false), "", "channels")
	assert.Contains(t, out, "Registered notification channels:")
	assert.Contains(t, out, " - Email\n - SMS\n - Push Notification\n - Chat (Adapter)\n")
}

func TestDemoCmd(t *testing.T) {
	out := run(t, testDeps(false), "", "demo")

	assert.Contains(t, out, "Customer registered: CUST-1001")
	assert.Contains(t, out, "Ticket created: TKT-1001")
	assert.Contains(t, out, "Ticket TKT-1001: OPEN -> IN_PROGRESS")
	assert.Contains(t, out, "Ticket TKT-1001: IN_PROGRESS -> RESOLVED")
	assert.Contains(t, out, "Ticket TKT-1001: RESOLVED -> CLOSED")
	assert.Contains(t, out, "Ticket TKT-1001: CLOSED -> OPEN")
	assert.Contains(t, out, "New ticket created: TKT-1001")
	assert.Contains(t, out, "Ticket TKT-1001 changed to status CLOSED")
	assert.Contains(t, out, "technical-support")
}

func TestShell_FacadeAndTransitions(t *testing.T) {
	input := strings.Join([]string{
		"3", "Ana", "ana@example.com", "555-0100", "vip", "Cannot log in to the portal", "2", "0",
		"5", "TKT-1001", "start",
		"5", "TKT-1001", "reopen",
		"6",
		"7",
		"8",
		"0",
	}, "\n") + "\n"

	out := run(t, testDeps(false), input)

	assert.Contains(t, out, "Customer ID: CUST-1001")
	assert.Contains(t, out, "Ticket ID: TKT-1001")
	assert.Contains(t, out, "Hello Ana, your support ticket TKT-1001 has been created.")
	assert.Contains(t, out, "Current status: OPEN, allowed: start-progress")
	assert.Contains(t, out, "Ticket TKT-1001: OPEN -> IN_PROGRESS")
	assert.Contains(t, out, "Ticket TKT-1001 unchanged (IN_PROGRESS)")
	assert.Contains(t, out, "[VIP] Ana")
	assert.Contains(t, out, `supportdesk_tickets_created_total{priority="HIGH"} 1`)
}

func TestShell_ReportsRejectionsAndBadInput(t *testing.T) {
	input := strings.Join([]string{
		"2", "CUST-4040", "Printer is on fire again", "1", "2",
		"1", "", "", "", "",
		"1", "Bruno", "not-an-email", "", "",
		"9",
	}, "\n") + "\n"

	out := run(t, testDeps(false), input, "shell")

	assert.Contains(t, out, "Error [CUSTOMER_NOT_FOUND]: customer does not exist: CUST-4040")
	assert.Contains(t, out, "Error [VALIDATION_FAILED]: invalid input: name failed \"required\"")
	assert.Contains(t, out, "email failed \"email\"")
	assert.Contains(t, out, "Invalid option.")
}

func TestShell_StrictTransitions(t *testing.T) {
	input := strings.Join([]string{
		"1", "Ana", "", "", "",
		"2", "CUST-1001", "Cannot log in to the portal", "LOW", "general",
		"5", "TKT-1001", "resolve",
		"0",
	}, "\n") + "\n"

	out := run(t, testDeps(true), input)
	assert.Contains(t, out, "Error [ILLEGAL_TRANSITION]: cannot resolve a ticket in status OPEN")
}

func TestParsePriorityAndCategory(t *testing.T) {
	p, err := parsePriority("3")
	require.NoError(t, err)
	assert.Equal(t, "CRITICAL", string(p))

	p, err = parsePriority("high")
	require.NoError(t, err)
	assert.Equal(t, "HIGH", string(p))

	_, err = parsePriority("7")
	assert.Error(t, err)

	c, err := parseCategory("feature request")
	require.NoError(t, err)
	assert.Equal(t, "FEATURE_REQUEST", string(c))

	c, err = parseCategory("1")
	require.NoError(t, err)
	assert.Equal(t, "BILLING", string(c))
}
