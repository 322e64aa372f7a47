package googleauth

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/oauth2"
)

// Flow obtains an authorization code from the user. The console flow is the
// default; the MCP surface uses the URL and SaveAuthCode directly instead.
type Flow interface {
	Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error)
}

// ConsoleFlow prints the authorization URL and reads the code from stdin.
type ConsoleFlow struct {
	In  io.Reader
	Out io.Writer
}

func (f *ConsoleFlow) Run(ctx context.Context, conf *oauth2.Config) (*oauth2.Token, error) {
	in := f.In
	if in == nil {
		in = os.Stdin
	}
	out := f.Out
	if out == nil {
		out = os.Stdout
	}

	fmt.Fprintf(out, "Open the following URL in your browser and authorize access:\n\n%s\n\n", conf.AuthCodeURL("state", oauth2.AccessTypeOffline))
	fmt.Fprint(out, "Enter the authorization code: ")

	reader := bufio.NewReader(in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return nil, &AuthError{Msg: "reading authorization code", Err: err}
	}
	code := strings.TrimSpace(line)
	if code == "" {
		return nil, &AuthError{Msg: "no authorization code entered"}
	}

	tok, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, &AuthError{Msg: "exchanging authorization code", Err: err}
	}
	return tok, nil
}
