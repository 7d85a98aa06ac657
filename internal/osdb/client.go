package osdb

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/kolo/xmlrpc"
)

const (
	defaultEndpoint    = "https://api.opensubtitles.org/xml-rpc"
	loginLanguageCode  = "en"
	loginStatusOK      = "200 OK"
	defaultDialTimeout = 30 * time.Second
)

// Config describes the XML-RPC client configuration.
type Config struct {
	Endpoint  string
	UserAgent string
	Username  string
	Password  string
	Transport http.RoundTripper
}

// Client issues blocking calls against the subtitle database. It carries no
// session state; the token returned by Login is passed explicitly into every
// per-file operation.
type Client struct {
	rpc       *xmlrpc.Client
	userAgent string
	username  string
	password  string
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		return nil, errors.New("osdb: user agent is required")
	}
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	transport := cfg.Transport
	if transport == nil {
		transport = &http.Transport{
			DialContext:         (&net.Dialer{Timeout: defaultDialTimeout}).DialContext,
			TLSHandshakeTimeout: defaultDialTimeout,
		}
	}
	rpc, err := xmlrpc.NewClient(endpoint, transport)
	if err != nil {
		return nil, fmt.Errorf("osdb: create client: %w", err)
	}
	return &Client{
		rpc:       rpc,
		userAgent: userAgent,
		username:  cfg.Username,
		password:  cfg.Password,
	}, nil
}

// Close releases the underlying RPC connection.
func (c *Client) Close() error {
	return c.rpc.Close()
}

// Login authenticates against the service and returns the session token used
// by all subsequent calls. Anonymous access uses empty credentials.
func (c *Client) Login() (string, error) {
	var reply struct {
		Status string `xmlrpc:"status"`
		Token  string `xmlrpc:"token"`
	}
	args := []any{c.username, c.password, loginLanguageCode, c.userAgent}
	if err := c.rpc.Call("LogIn", args, &reply); err != nil {
		return "", wrapCall("LogIn", err)
	}
	if reply.Status != loginStatusOK {
		return "", fmt.Errorf("LogIn: service refused session: %s", reply.Status)
	}
	if reply.Token == "" {
		return "", ParseError{Field: "token", Reason: "missing from login response"}
	}
	return reply.Token, nil
}

// Download fetches the transport-encoded payload for one subtitle id. The
// returned string is base64 text wrapping a gzip stream; feed it to the
// payload package.
func (c *Client) Download(token string, subtitleID int) (string, error) {
	var reply struct {
		Status string `xmlrpc:"status"`
		Data   any    `xmlrpc:"data"`
	}
	args := []any{token, []any{subtitleID}}
	if err := c.rpc.Call("DownloadSubtitles", args, &reply); err != nil {
		return "", wrapCall("DownloadSubtitles", err)
	}
	records, err := resultRecords(reply.Data)
	if err != nil {
		return "", fmt.Errorf("DownloadSubtitles: %w", err)
	}
	if len(records) == 0 {
		return "", ParseError{Field: "data", Reason: "no payload for subtitle id"}
	}
	encoded, err := stringField(records[0], "data")
	if err != nil {
		return "", fmt.Errorf("DownloadSubtitles: %w", err)
	}
	return encoded, nil
}

// Language is one entry of the service's subtitle language catalog.
type Language struct {
	ID   string
	Name string
}

// Languages lists the language codes the service accepts as search filters.
func (c *Client) Languages() ([]Language, error) {
	var reply struct {
		Data any `xmlrpc:"data"`
	}
	if err := c.rpc.Call("GetSubLanguages", []any{}, &reply); err != nil {
		return nil, wrapCall("GetSubLanguages", err)
	}
	records, err := resultRecords(reply.Data)
	if err != nil {
		return nil, fmt.Errorf("GetSubLanguages: %w", err)
	}
	languages := make([]Language, 0, len(records))
	for _, record := range records {
		id, err := stringField(record, "SubLanguageID")
		if err != nil {
			return nil, fmt.Errorf("GetSubLanguages: %w", err)
		}
		name, err := stringField(record, "LanguageName")
		if err != nil {
			return nil, fmt.Errorf("GetSubLanguages: %w", err)
		}
		languages = append(languages, Language{ID: id, Name: name})
	}
	return languages, nil
}
