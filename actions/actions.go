// Package actions provides builders for well-known manager actions. Each
// builder constructs a labeled *ami.Action and nothing more; all protocol
// logic stays in the client.
package actions

import (
	"strconv"
	"time"

	ami "github.com/voicebridge/ami"
)

// Login authenticates the connection. events is the optional value for
// the Events field ("on", "off", or a mask); empty omits it.
func Login(username, secret, events string) *ami.Action {
	a := ami.NewAction("Login")
	a.Set("Username", username)
	a.Set("Secret", secret)
	if events != "" {
		a.Set("Events", events)
	}
	return a
}

// Logoff asks the peer to end the session. The server closes the
// connection after responding.
func Logoff() *ami.Action {
	return ami.NewAction("Logoff")
}

// Ping answers with a Pong response; useful as a liveness probe.
func Ping() *ami.Action {
	return ami.NewAction("Ping")
}

// Events sets the event mask for this connection.
func Events(mask string) *ami.Action {
	return ami.NewAction("Events").Set("EventMask", mask)
}

// Command runs a CLI command; the output arrives as a "Response: Follows"
// frame with the folded text in the Output field.
func Command(command string) *ami.Action {
	return ami.NewAction("Command").Set("Command", command)
}

// OriginateParams describes an Originate call request. Exactly one of
// Exten/Context/Priority or Application/Data should be set.
type OriginateParams struct {
	Channel  string
	Exten    string
	Context  string
	Priority int

	Application string
	Data        string

	CallerID string
	Account  string
	Timeout  time.Duration
	Async    bool

	// Variables become repeated "Variable: key=value" fields.
	Variables map[string]string
}

// Originate places a new call.
func Originate(p OriginateParams) *ami.Action {
	a := ami.NewAction("Originate")
	a.Set("Channel", p.Channel)
	if p.Exten != "" {
		a.Set("Exten", p.Exten)
		a.Set("Context", p.Context)
		a.Set("Priority", strconv.Itoa(p.Priority))
	}
	if p.Application != "" {
		a.Set("Application", p.Application)
		if p.Data != "" {
			a.Set("Data", p.Data)
		}
	}
	if p.CallerID != "" {
		a.Set("CallerID", p.CallerID)
	}
	if p.Account != "" {
		a.Set("Account", p.Account)
	}
	if p.Timeout > 0 {
		a.Set("Timeout", strconv.FormatInt(p.Timeout.Milliseconds(), 10))
	}
	if p.Async {
		a.Set("Async", "true")
	}
	for key, value := range p.Variables {
		a.Set("Variable", key+"="+value)
	}
	return a
}

// Hangup terminates a channel. cause is an ISDN cause code; zero omits it.
func Hangup(channel string, cause int) *ami.Action {
	a := ami.NewAction("Hangup").Set("Channel", channel)
	if cause > 0 {
		a.Set("Cause", strconv.Itoa(cause))
	}
	return a
}

// Status lists channel status; empty channel reports all channels.
func Status(channel string) *ami.Action {
	a := ami.NewAction("Status")
	if channel != "" {
		a.Set("Channel", channel)
	}
	return a
}

// CoreStatus reports core PBX counters.
func CoreStatus() *ami.Action {
	return ami.NewAction("CoreStatus")
}

// QueueStatus reports queue state; empty queue reports all queues.
func QueueStatus(queue string) *ami.Action {
	a := ami.NewAction("QueueStatus")
	if queue != "" {
		a.Set("Queue", queue)
	}
	return a
}

// SIPPeers lists configured SIP peers.
func SIPPeers() *ami.Action {
	return ami.NewAction("SIPpeers")
}

// ExtensionState queries the state of an extension in a dialplan context.
func ExtensionState(exten, context string) *ami.Action {
	return ami.NewAction("ExtensionState").
		Set("Exten", exten).
		Set("Context", context)
}

// Getvar reads a channel or global variable; empty channel means global.
func Getvar(name, channel string) *ami.Action {
	a := ami.NewAction("Getvar").Set("Variable", name)
	if channel != "" {
		a.Set("Channel", channel)
	}
	return a
}

// Setvar writes a channel or global variable; empty channel means global.
func Setvar(name, value, channel string) *ami.Action {
	a := ami.NewAction("Setvar").
		Set("Variable", name).
		Set("Value", value)
	if channel != "" {
		a.Set("Channel", channel)
	}
	return a
}

// Redirect transfers a channel to a new dialplan position.
func Redirect(channel, exten, context string, priority int) *ami.Action {
	return ami.NewAction("Redirect").
		Set("Channel", channel).
		Set("Exten", exten).
		Set("Context", context).
		Set("Priority", strconv.Itoa(priority))
}
