package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/mealplan/internal/planner"
	"github.com/leapstack-labs/mealplan/pkg/core"
	"golang.org/x/term"
)

// Interactive prompts and replies.
const (
	msgMainPrompt      = "What would you like to do (add, show, plan, list plan, save, exit)?"
	msgAddCategory     = "Which meal do you want to add (breakfast, lunch, dinner)?"
	msgWrongCategory   = "Wrong meal category! Choose from: breakfast, lunch, dinner."
	msgMealName        = "Input the meal's name:"
	msgWrongFormat     = "Wrong format. Use letters only!"
	msgIngredients     = "Input the ingredients:"
	msgMealAdded       = "The meal has been added!"
	msgShowCategory    = "Which category do you want to print (breakfast, lunch, dinner)?"
	msgNoMeals         = "No meals found."
	msgChooseMeal      = "Choose the %s for %s from the list above:"
	msgNoSuchMeal      = "This meal doesn’t exist. Choose a meal from the list above."
	msgDayPlanned      = "Yeah! We planned the meals for %s."
	msgNoPlan          = "No plan found. Please create a plan first."
	msgUnableToSave    = "Unable to save. Plan your meals first."
	msgFilename        = "Input a filename:"
	msgSaved           = "Saved!"
	msgBye             = "Bye!"
	msgUnknownCommand  = "Unknown command"
	readlinePrompt     = "> "
	readlineInterrupt  = "^C"
	readlineEOFCommand = "exit"
)

// LineReader supplies one line of user input at a time. It returns io.EOF
// when input ends and readline.ErrInterrupt on Ctrl-C.
type LineReader interface {
	Readline() (string, error)
	Close() error
}

// ShellStore is the storage the shell talks to directly.
type ShellStore interface {
	AddMeal(ctx context.Context, category core.Category, name string, ingredients []string) (*core.Meal, error)
	ListByCategory(ctx context.Context, category core.Category, order core.ListOrder) ([]core.Meal, error)
	LoadPlan(ctx context.Context) (core.WeeklyPlan, error)
}

// Shell is the interactive command loop.
type Shell struct {
	in      LineReader
	out     io.Writer
	errOut  io.Writer
	store   ShellStore
	planner *planner.Planner
	logger  *slog.Logger
}

// NewShell creates a shell reading from in and writing prompts to out.
func NewShell(in LineReader, out, errOut io.Writer, store ShellStore, p *planner.Planner, logger *slog.Logger) *Shell {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Shell{in: in, out: out, errOut: errOut, store: store, planner: p, logger: logger}
}

// errInterrupted aborts the current command and returns to the main prompt.
var errInterrupted = errors.New("interrupted")

// Run loops over commands until exit, end of input, or cancellation.
func (s *Shell) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.println(msgMainPrompt)
		line, err := s.readLine()
		if errors.Is(err, errInterrupted) {
			continue
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}

		command := strings.TrimSpace(line)
		if command == "exit" {
			s.println(msgBye)
			return nil
		}

		err = s.dispatch(ctx, command)
		switch {
		case err == nil, errors.Is(err, errInterrupted):
		case errors.Is(err, io.EOF):
			return nil
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			s.logger.Error("command failed", slog.String("command", command), slog.String("error", err.Error()))
			_, _ = fmt.Fprintf(s.errOut, "Error: %v\n", err)
		}
	}
}

func (s *Shell) dispatch(ctx context.Context, command string) error {
	switch command {
	case "add":
		return s.Add(ctx)
	case "show":
		return s.Show(ctx)
	case "plan":
		return s.Plan(ctx)
	case "list plan":
		return s.ListPlan(ctx)
	case "save":
		return s.Save(ctx)
	default:
		s.println(msgUnknownCommand)
		return nil
	}
}

// Add asks for a category, a name and the ingredients, then stores the meal.
func (s *Shell) Add(ctx context.Context) error {
	category, err := s.askCategory(msgAddCategory)
	if err != nil {
		return err
	}

	var name string
	for {
		s.println(msgMealName)
		if name, err = s.readLine(); err != nil {
			return err
		}
		if core.ValidateMealName(name) == nil {
			break
		}
		s.println(msgWrongFormat)
	}

	var ingredients []string
	for {
		s.println(msgIngredients)
		line, err := s.readLine()
		if err != nil {
			return err
		}
		if ingredients, err = core.ParseIngredients(line); err == nil {
			break
		}
		s.println(msgWrongFormat)
	}

	if _, err := s.store.AddMeal(ctx, category, name, ingredients); err != nil {
		return err
	}
	s.println(msgMealAdded)
	return nil
}

// Show prints the meals of a category in insertion order.
func (s *Shell) Show(ctx context.Context) error {
	var (
		category core.Category
		label    string
	)
	for {
		s.println(msgShowCategory)
		line, err := s.readLine()
		if err != nil {
			return err
		}
		if category, err = core.ParseCategory(line); err == nil {
			label = line
			break
		}
		s.println(msgWrongCategory)
	}

	meals, err := s.store.ListByCategory(ctx, category, core.OrderInsertion)
	if err != nil {
		return err
	}
	if len(meals) == 0 {
		s.println(msgNoMeals)
		return nil
	}
	writeMealsText(s.out, label, meals)
	return nil
}

// Plan runs a planning session and prints the week. When a category has
// no meals it prints nothing.
func (s *Shell) Plan(ctx context.Context) error {
	session, err := s.planner.BuildWeeklyPlan(ctx, &promptSelector{shell: s})
	if errors.Is(err, core.ErrEmptyCategory) {
		s.logger.Debug("planning skipped", slog.String("reason", err.Error()))
		return nil
	}
	if err != nil {
		return err
	}
	writePlanText(s.out, session.Plan())
	return nil
}

// ListPlan prints the stored plan.
func (s *Shell) ListPlan(ctx context.Context) error {
	plan, err := s.store.LoadPlan(ctx)
	if err != nil {
		return err
	}
	if len(plan) == 0 {
		s.println(msgNoPlan)
		return nil
	}
	writePlanText(s.out, plan)
	return nil
}

// Save writes the shopping list of the stored plan to a file named by the user.
func (s *Shell) Save(ctx context.Context) error {
	list, err := s.planner.SavedShoppingList(ctx)
	if errors.Is(err, planner.ErrNoPlan) {
		s.println(msgUnableToSave)
		return nil
	}
	if err != nil {
		return err
	}

	s.println(msgFilename)
	filename, err := s.readLine()
	if err != nil {
		return err
	}

	if err := writeShoppingListFile(filename, list); err != nil {
		s.logger.Warn("failed to write shopping list", slog.String("file", filename), slog.String("error", err.Error()))
		s.println(msgUnableToSave)
		return nil
	}
	s.println(msgSaved)
	return nil
}

func (s *Shell) askCategory(prompt string) (core.Category, error) {
	for {
		s.println(prompt)
		line, err := s.readLine()
		if err != nil {
			return "", err
		}
		if c, err := core.ParseCategory(line); err == nil {
			return c, nil
		}
		s.println(msgWrongCategory)
	}
}

func (s *Shell) println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

// readLine maps Ctrl-C to errInterrupted so any prompt can be abandoned.
func (s *Shell) readLine() (string, error) {
	line, err := s.in.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		return "", errInterrupted
	}
	return line, err
}

func writeShoppingListFile(filename string, list planner.ShoppingList) error {
	if strings.TrimSpace(filename) == "" {
		return fmt.Errorf("empty filename")
	}
	f, err := os.Create(filename) //nolint:gosec // the user names the output file
	if err != nil {
		return err
	}
	if _, err := list.WriteTo(f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// scannerReader reads lines from a non-interactive source.
type scannerReader struct {
	sc *bufio.Scanner
}

// NewScannerReader returns a LineReader over r.
func NewScannerReader(r io.Reader) LineReader {
	return &scannerReader{sc: bufio.NewScanner(r)}
}

func (r *scannerReader) Readline() (string, error) {
	if r.sc.Scan() {
		return strings.TrimSuffix(r.sc.Text(), "\r"), nil
	}
	if err := r.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

func (r *scannerReader) Close() error { return nil }

// newLineReader uses readline with history and completion when in is a
// terminal and a plain line scanner otherwise.
func newLineReader(in io.Reader, out io.Writer, historyFile string) (LineReader, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		return NewScannerReader(in), nil
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          readlinePrompt,
		HistoryFile:     historyFile,
		AutoComplete:    newShellCompleter(),
		InterruptPrompt: readlineInterrupt,
		EOFPrompt:       readlineEOFCommand,
		Stdin:           f,
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize shell: %w", err)
	}
	return rl, nil
}

// newShellCompleter completes commands at the main prompt and categories
// at the category prompts.
func newShellCompleter() *readline.PrefixCompleter {
	items := []readline.PrefixCompleterInterface{
		readline.PcItem("add"),
		readline.PcItem("show"),
		readline.PcItem("plan"),
		readline.PcItem("list", readline.PcItem("plan")),
		readline.PcItem("save"),
		readline.PcItem("exit"),
	}
	for _, c := range core.Categories() {
		items = append(items, readline.PcItem(c.String()))
	}
	return readline.NewPrefixCompleter(items...)
}
