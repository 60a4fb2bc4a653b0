package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/julianstephens/metaflow/internal/backup"
	"github.com/julianstephens/metaflow/internal/config"
	"github.com/julianstephens/metaflow/internal/service"
	"github.com/julianstephens/metaflow/internal/storage"
)

// Context is handed to every command's Run method.
type Context struct {
	Services *service.Services
	Backup   *backup.Manager
	Config   *config.Config
	Store    storage.Provider
	// Ctx is cancelled on interrupt; nil means context.Background
	Ctx context.Context

	// Out and In default to stdout and stdin
	Out io.Writer
	In  io.Reader
	Now func() time.Time
}

// NewContext wires the services and backup manager over an opened store.
func NewContext(store storage.Provider, cfg *config.Config, opts ...service.Option) *Context {
	return &Context{
		Services: service.New(store, opts...),
		Backup:   backup.NewManager(store, cfg.Dir),
		Config:   cfg,
		Store:    store,
	}
}

func (c *Context) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) ctx() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

func (c *Context) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Context) printf(format string, args ...interface{}) {
	fmt.Fprintf(c.out(), format, args...)
}

func (c *Context) println(args ...interface{}) {
	fmt.Fprintln(c.out(), args...)
}

// confirm asks a yes/no question on In; anything but y/yes is a no
func (c *Context) confirm(prompt string) (bool, error) {
	in := c.In
	if in == nil {
		in = os.Stdin
	}
	c.printf("%s [y/N]: ", prompt)
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}
