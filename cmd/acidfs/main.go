// Command acidfs is a small front-end over the acidfs package:
// one subcommand per filesystem operation, each opening a handle,
// doing its work, and committing (or, for read-only ops, aborting) the
// transaction before exiting.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/nickyhof/acidfs"
	"github.com/nickyhof/acidfs/core"
)

const (
	ErrorColor   = "\033[31m"
	SuccessColor = "\033[32m"
	ResetColor   = "\033[0m"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	repo := flag.String("repo", "", "path to the acidfs repository")
	bare := flag.Bool("bare", false, "treat repo as a bare object store")
	userName := flag.String("name", "", "author name for this transaction")
	userEmail := flag.String("email", "", "author email for this transaction")
	message := flag.String("m", "", "commit description")
	flag.CommandLine.Parse(os.Args[2:])

	cmd := os.Args[1]
	args := flag.Args()

	if *repo == "" {
		fail("%s requires -repo", cmd)
	}

	h, err := acidfs.Open(core.Config{Repo: *repo, Bare: *bare, Create: true})
	if err != nil {
		fail("opening %s: %v", *repo, err)
	}

	meta := core.Metadata{Description: *message}
	if *userName != "" || *userEmail != "" {
		meta.Extension = map[string]string{"user": *userName, "email": *userEmail}
	}

	switch cmd {
	case "init":
		ok("initialized %s", *repo)
		abort(h)
	case "write":
		runWrite(h, args, meta)
	case "cat":
		runCat(h, args)
		abort(h)
	case "ls":
		runLs(h, args)
		abort(h)
	case "rm":
		runRm(h, args, meta)
	case "mv":
		runMv(h, args, meta)
	case "log":
		runLog(h)
		abort(h)
	case "merge":
		runMerge(h, meta)
	default:
		printUsage()
		os.Exit(2)
	}
}

func runWrite(h *acidfs.Handle, args []string, meta core.Metadata) {
	if len(args) != 1 {
		fail("usage: acidfs write -repo <repo> <path> < content")
	}
	f, err := h.Open(args[0], "w")
	if err != nil {
		fail("write %s: %v", args[0], err)
	}
	if _, err := io.Copy(f, os.Stdin); err != nil {
		fail("write %s: %v", args[0], err)
	}
	if err := f.Close(); err != nil {
		fail("write %s: %v", args[0], err)
	}
	if err := h.Commit(meta); err != nil {
		fail("commit: %v", err)
	}
	ok("wrote %s", args[0])
}

func runCat(h *acidfs.Handle, args []string) {
	if len(args) != 1 {
		fail("usage: acidfs cat -repo <repo> <path>")
	}
	f, err := h.Open(args[0], "r")
	if err != nil {
		fail("cat %s: %v", args[0], err)
	}
	defer f.Close()
	if _, err := io.Copy(os.Stdout, f); err != nil {
		fail("cat %s: %v", args[0], err)
	}
}

func runLs(h *acidfs.Handle, args []string) {
	path := "/"
	if len(args) == 1 {
		path = args[0]
	}
	names, err := h.Listdir(path)
	if err != nil {
		fail("ls %s: %v", path, err)
	}
	for _, n := range names {
		fmt.Println(n)
	}
}

func runRm(h *acidfs.Handle, args []string, meta core.Metadata) {
	if len(args) != 1 {
		fail("usage: acidfs rm -repo <repo> <path>")
	}
	if err := h.Rm(args[0]); err != nil {
		fail("rm %s: %v", args[0], err)
	}
	if err := h.Commit(meta); err != nil {
		fail("commit: %v", err)
	}
	ok("removed %s", args[0])
}

func runMv(h *acidfs.Handle, args []string, meta core.Metadata) {
	if len(args) != 2 {
		fail("usage: acidfs mv -repo <repo> <src> <dst>")
	}
	if err := h.Mv(args[0], args[1]); err != nil {
		fail("mv %s %s: %v", args[0], args[1], err)
	}
	if err := h.Commit(meta); err != nil {
		fail("commit: %v", err)
	}
	ok("moved %s -> %s", args[0], args[1])
}

func runLog(h *acidfs.Handle) {
	fmt.Printf("base: %s\n", h.GetBase())
}

func runMerge(h *acidfs.Handle, meta core.Metadata) {
	if err := h.Commit(meta); err != nil {
		fail("merge: %v", err)
	}
	ok("up to date")
}

func abort(h *acidfs.Handle) {
	if err := h.Abort(); err != nil {
		fail("abort: %v", err)
	}
}

func ok(format string, args ...any) {
	fmt.Printf("%s✓ %s%s\n", SuccessColor, fmt.Sprintf(format, args...), ResetColor)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "%s✗ %s%s\n", ErrorColor, fmt.Sprintf(format, args...), ResetColor)
	os.Exit(1)
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "acidfs %s — usage: acidfs <init|write|cat|ls|rm|mv|log|merge> -repo <path> [args]\n", Version)
}
