// Command nk is a CLI client for the notekeeper HTTP API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/notekeeper/internal/api"
)

var errUsage = errors.New("usage")

const usageText = `nk CLI
Usage:
  nk [-addr URL] [-auth-prefix P] [-notes-prefix P] [-tags-prefix P] <cmd> [args]

Commands:
  version
  register   -n <name> -u <username> -p <password>
  login      -u <username> -p <password>           (saves token)
  logout                                       (removes token)
  note add   -t <title> [-c <content> | -f <file|->] [-locked] [-tags a,b]
  note ls
  note show  -id <uuid>
  note edit  -id <uuid> -t <title> [-c <content> | -f <file|->] [-locked true|false]
  note rm    -id <uuid>
  tag add    -n <name>
  tag ls
  tag show   -id <uuid>
  tag rename -id <uuid> -n <name>
  tag rm     -id <uuid>
`

func usage() {
	fmt.Fprint(os.Stderr, usageText)
}

func fail(err error) {
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}

var (
	version   = "dev"
	buildDate = "unknown"
)

// main dispatches subcommands against the configured server.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			usage()
			os.Exit(2)
		}
		fail(err)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	gfs := flag.NewFlagSet("nk", flag.ContinueOnError)
	gfs.SetOutput(io.Discard)
	addr := gfs.String("addr", "http://localhost:8000", "server base URL")
	authPrefix := gfs.String("auth-prefix", "/api/auth", "auth routes prefix")
	notesPrefix := gfs.String("notes-prefix", "/api/notes", "notes routes prefix")
	tagsPrefix := gfs.String("tags-prefix", "/api/tags", "tags routes prefix")
	if err := gfs.Parse(args); err != nil || gfs.NArg() < 1 {
		return errUsage
	}

	c := &client{
		base:   *addr,
		routes: routes{auth: *authPrefix, notes: *notesPrefix, tags: *tagsPrefix},
		hc:     &http.Client{Timeout: 15 * time.Second},
	}
	cmd, rest := gfs.Arg(0), gfs.Args()[1:]

	switch cmd {
	case "version":
		fmt.Fprintf(out, "nk %s (%s)\n", version, buildDate)
		return nil
	case "register":
		return cmdRegister(ctx, c, rest, out)
	case "login":
		return cmdLogin(ctx, c, rest, out)
	case "logout":
		if err := removeToken(); err != nil {
			return err
		}
		fmt.Fprintln(out, "ok")
		return nil
	case "note", "tag":
		if len(rest) < 1 {
			return errUsage
		}
		if cmd == "note" {
			tok, err := loadToken()
			if err != nil {
				return err
			}
			c.token = tok
			return cmdNote(ctx, c, rest[0], rest[1:], out)
		}
		return cmdTag(ctx, c, rest[0], rest[1:], out)
	default:
		return errUsage
	}
}

func cmdRegister(ctx context.Context, c *client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	n := fs.String("n", "", "display name")
	u := fs.String("u", "", "username")
	p := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *u == "" || *p == "" {
		return errors.New("need -u and -p")
	}
	name := *n
	if name == "" {
		name = *u
	}
	resp, err := c.Register(ctx, api.RegisterRequest{Name: name, Username: *u, Password: *p})
	if err != nil {
		return err
	}
	printJSON(out, resp)
	return nil
}

func cmdLogin(ctx context.Context, c *client, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	u := fs.String("u", "", "username")
	p := fs.String("p", "", "password")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *u == "" || *p == "" {
		return errors.New("need -u and -p")
	}
	resp, err := c.Login(ctx, api.LoginRequest{Username: *u, Password: *p})
	if err != nil {
		return err
	}
	if err := saveToken(resp.AccessToken, tokenExpiry(resp.AccessToken, 30*time.Minute)); err != nil {
		return err
	}
	fmt.Fprintln(out, "ok")
	return nil
}

// content picks -f over -c; "-" reads stdin.
func content(inline, file string) (string, error) {
	if file == "" {
		return inline, nil
	}
	b, err := readAll(file)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func splitTags(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func idArg(v string) (string, error) {
	id, err := uuid.FromString(v)
	if err != nil {
		return "", fmt.Errorf("bad -id: %w", err)
	}
	return id.String(), nil
}

func cmdNote(ctx context.Context, c *client, sub string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("note "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "note id")
	title := fs.String("t", "", "title")
	text := fs.String("c", "", "content")
	file := fs.String("f", "", "read content from file (- for stdin)")
	tags := fs.String("tags", "", "comma-separated tag names")
	var locked string
	if sub == "add" {
		fs.BoolFunc("locked", "create the note locked", func(string) error { locked = "true"; return nil })
	} else {
		fs.StringVar(&locked, "locked", "", "true|false, empty keeps current")
	}
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	switch sub {
	case "add":
		if *title == "" {
			return errors.New("need -t")
		}
		body, err := content(*text, *file)
		if err != nil {
			return err
		}
		n, err := c.CreateNote(ctx, api.CreateNoteRequest{
			Title:   *title,
			Content: body,
			Locked:  locked == "true",
			Tags:    splitTags(*tags),
		})
		if err != nil {
			return err
		}
		printJSON(out, n)

	case "ls":
		ns, err := c.ListNotes(ctx)
		if err != nil {
			return err
		}
		type row struct {
			ID, Title, UpdatedAt string
			Tags                 []string
		}
		rows := []row{}
		for _, n := range ns {
			r := row{ID: n.ID, Title: n.Title, UpdatedAt: n.UpdatedAt.Format(time.RFC3339)}
			for _, t := range n.Tags {
				r.Tags = append(r.Tags, t.Name)
			}
			rows = append(rows, r)
		}
		printJSON(out, rows)

	case "show":
		nid, err := idArg(*id)
		if err != nil {
			return err
		}
		n, err := c.GetNote(ctx, nid)
		if err != nil {
			return err
		}
		printJSON(out, n)

	case "edit":
		nid, err := idArg(*id)
		if err != nil {
			return err
		}
		if *title == "" {
			return errors.New("need -t")
		}
		body, err := content(*text, *file)
		if err != nil {
			return err
		}
		req := api.UpdateNoteRequest{Title: *title, Content: body}
		if locked != "" {
			v, err := strconv.ParseBool(locked)
			if err != nil {
				return fmt.Errorf("bad -locked: %w", err)
			}
			req.Locked = &v
		}
		n, err := c.UpdateNote(ctx, nid, req)
		if err != nil {
			return err
		}
		printJSON(out, n)

	case "rm":
		nid, err := idArg(*id)
		if err != nil {
			return err
		}
		d, err := c.DeleteNote(ctx, nid)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, d.Detail)

	default:
		return errUsage
	}
	return nil
}

func cmdTag(ctx context.Context, c *client, sub string, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("tag "+sub, flag.ContinueOnError)
	id := fs.String("id", "", "tag id")
	name := fs.String("n", "", "tag name")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	switch sub {
	case "add":
		if *name == "" {
			return errors.New("need -n")
		}
		t, err := c.CreateTag(ctx, *name)
		if err != nil {
			return err
		}
		printJSON(out, t)

	case "ls":
		ts, err := c.ListTags(ctx)
		if err != nil {
			return err
		}
		printJSON(out, ts)

	case "show":
		tid, err := idArg(*id)
		if err != nil {
			return err
		}
		t, err := c.GetTag(ctx, tid)
		if err != nil {
			return err
		}
		printJSON(out, t)

	case "rename":
		tid, err := idArg(*id)
		if err != nil {
			return err
		}
		if *name == "" {
			return errors.New("need -n")
		}
		t, err := c.RenameTag(ctx, tid, *name)
		if err != nil {
			return err
		}
		printJSON(out, t)

	case "rm":
		tid, err := idArg(*id)
		if err != nil {
			return err
		}
		d, err := c.DeleteTag(ctx, tid)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, d.Detail)

	default:
		return errUsage
	}
	return nil
}
