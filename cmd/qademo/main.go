// Command qademo asks a few questions about a context and prints the answers.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/dgallion1/docqa/internal/config"
	"github.com/dgallion1/docqa/internal/highlight"
	"github.com/dgallion1/docqa/internal/oracle"
	"github.com/dgallion1/docqa/internal/parser"
	"github.com/dgallion1/docqa/internal/qa"
	"github.com/dgallion1/docqa/internal/session"
	"github.com/fatih/color"
)

var (
	questionColor = color.New(color.FgCyan, color.Bold)
	answerColor   = color.New(color.FgGreen)
	errorColor    = color.New(color.FgRed)
)

var defaultQuestions = []string{
	"What is AI?",
	"When was AI founded?",
	"Who displays natural intelligence?",
}

type questionList []string

func (q *questionList) String() string { return strings.Join(*q, "; ") }

func (q *questionList) Set(v string) error {
	*q = append(*q, v)
	return nil
}

func main() {
	var questions questionList
	contextFile := flag.String("context-file", "", "PDF, DOCX or TXT file to use as context (default: built-in sample)")
	verbose := flag.Bool("v", false, "log oracle calls to stderr")
	flag.Var(&questions, "q", "question to ask (repeatable)")
	flag.Parse()

	logOut := io.Discard
	if *verbose {
		logOut = os.Stderr
	}
	log := slog.New(slog.NewTextHandler(logOut, nil))

	if err := run(context.Background(), log, *contextFile, questions, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "qademo:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger, contextFile string, questions []string, out io.Writer) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	passage, err := loadContext(contextFile, cfg)
	if err != nil {
		return err
	}
	if len(questions) == 0 {
		questions = defaultQuestions
	}

	o, err := oracle.New(cfg)
	if err != nil {
		return err
	}
	defer oracle.Close(o)

	return ask(ctx, qa.NewService(o, log), passage, questions, out)
}

func loadContext(path string, cfg config.Config) (string, error) {
	if path == "" {
		return session.DefaultContext, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	x := &parser.Extractor{FallbackPdftotext: cfg.PDFFallbackPdftotext}
	return parser.Truncate(x.Extract(data, parser.ExtFromFilename(path)), cfg.MaxContextChars), nil
}

// ask prints one block per question. Oracle failures are printed and do not
// stop the remaining questions.
func ask(ctx context.Context, svc *qa.Service, passage string, questions []string, out io.Writer) error {
	for _, q := range questions {
		questionColor.Fprintf(out, "Q: %s\n", q)
		resp, err := svc.Ask(ctx, q, passage)
		if err != nil {
			errorColor.Fprintf(out, "%s\n\n", err)
			continue
		}
		answerColor.Fprintf(out, "A: %s\n", resp.Answer)
		fmt.Fprintf(out, "Confidence: %.2f%%\n", resp.Score*100)
		fmt.Fprintf(out, "Context: %s\n\n", highlight.Plain(resp.Highlight))
	}
	return nil
}
