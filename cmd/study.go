package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/andrewpaige1/memora/config"
	"github.com/andrewpaige1/memora/store"
	"github.com/andrewpaige1/memora/study"
)

var (
	studySetID string
	studyMode  string
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Study a set interactively from the terminal",
	Long: `Load a flashcard set and drive the study modes line by line.
The session state is printed as JSON after every command. Type "help"
for the command list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mode, err := study.ParseMode(studyMode)
		if err != nil {
			return err
		}

		db, err := config.Connect(cfg.Database)
		if err != nil {
			return err
		}
		if sqlDB, err := db.DB(); err == nil {
			defer sqlDB.Close()
		}
		s := store.New(db)

		ctx := cmd.Context()
		board, err := study.LoadBoard(ctx, s, studySetID)
		if err != nil {
			return err
		}

		sess := study.NewSession(board, s, study.InlinePersister{Log: logger})
		sess.EnterMode(mode)
		return runREPL(ctx, sess, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(studyCmd)
	studyCmd.Flags().StringVarP(&studySetID, "set", "s", "", "public ID of the set to study")
	studyCmd.Flags().StringVarP(&studyMode, "mode", "m", "flip", "starting mode: flip, list, category or whiteboard")
	studyCmd.MarkFlagRequired("set")
}

const studyHelp = `Commands:
  mode <flip|list|category|whiteboard|none>
  flip | next | prev                 flip mode
  quiz                               toggle quiz (whiteboard: edit/quiz)
  answer <card> <n>                  list quiz
  select <category> | assign <card>  category quiz
  click <card>                       whiteboard link protocol
  move <card> <x> <y>                whiteboard drag, edit mode
  unlink <link>                      whiteboard, edit mode
  check | reset | show | help | quit`

var errQuit = errors.New("quit")

func runREPL(ctx context.Context, sess *study.Session, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	printState(out, sess)
	fmt.Fprint(out, "> ")

	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) > 0 {
			err := execStudyCommand(ctx, sess, fields, out)
			switch {
			case errors.Is(err, errQuit):
				return nil
			case err != nil:
				fmt.Fprintln(out, "error:", err)
			default:
				printState(out, sess)
			}
		}
		fmt.Fprint(out, "> ")
	}
	return scanner.Err()
}

func printState(out io.Writer, sess *study.Session) {
	b, err := json.MarshalIndent(sess.State(), "", "  ")
	if err != nil {
		fmt.Fprintln(out, "error:", err)
		return
	}
	fmt.Fprintln(out, string(b))
}

// execStudyCommand applies one command line to sess.
func execStudyCommand(ctx context.Context, sess *study.Session, fields []string, out io.Writer) error {
	name, args := fields[0], fields[1:]
	need := func(n int, usage string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", usage)
		}
		return nil
	}
	inMode := func(modes ...study.Mode) error {
		for _, m := range modes {
			if sess.Mode() == m {
				return nil
			}
		}
		return fmt.Errorf("%s is not available in %s mode", name, sess.Mode())
	}

	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(out, studyHelp)
	case "show":
	case "mode":
		if err := need(1, "mode <name>"); err != nil {
			return err
		}
		m, err := study.ParseMode(args[0])
		if err != nil {
			return err
		}
		sess.EnterMode(m)

	case "flip", "next", "prev":
		if err := inMode(study.ModeFlip); err != nil {
			return err
		}
		switch name {
		case "flip":
			sess.Flip.Flip()
		case "next":
			sess.Flip.Next()
		case "prev":
			sess.Flip.Prev()
		}

	case "quiz":
		switch sess.Mode() {
		case study.ModeList:
			sess.List.ToggleQuiz()
		case study.ModeCategory:
			sess.Category.ToggleQuiz()
		case study.ModeWhiteboard:
			sess.Whiteboard.ToggleMode()
		default:
			return inMode(study.ModeList, study.ModeCategory, study.ModeWhiteboard)
		}

	case "answer":
		if err := inMode(study.ModeList); err != nil {
			return err
		}
		if err := need(2, "answer <card> <n>"); err != nil {
			return err
		}
		sess.List.SubmitAnswer(args[0], args[1])

	case "select":
		if err := inMode(study.ModeCategory); err != nil {
			return err
		}
		if err := need(1, "select <category>"); err != nil {
			return err
		}
		sess.Category.Select(strings.Join(args, " "))

	case "assign":
		if err := inMode(study.ModeCategory); err != nil {
			return err
		}
		if err := need(1, "assign <card>"); err != nil {
			return err
		}
		sess.Category.Assign(args[0])

	case "click":
		if err := inMode(study.ModeWhiteboard); err != nil {
			return err
		}
		if err := need(1, "click <card>"); err != nil {
			return err
		}
		sess.Whiteboard.ClickCard(ctx, args[0])

	case "move":
		if err := inMode(study.ModeWhiteboard); err != nil {
			return err
		}
		if err := need(3, "move <card> <x> <y>"); err != nil {
			return err
		}
		x, errX := strconv.ParseFloat(args[1], 64)
		y, errY := strconv.ParseFloat(args[2], 64)
		if err := errors.Join(errX, errY); err != nil {
			return fmt.Errorf("move: %w", err)
		}
		if !sess.Whiteboard.BeginDrag(args[0]) {
			return fmt.Errorf("cannot move %s in %s mode", args[0], sess.Whiteboard.Mode())
		}
		sess.Whiteboard.UpdateDrag(args[0], x, y)
		sess.Whiteboard.EndDrag(ctx, args[0])

	case "unlink":
		if err := inMode(study.ModeWhiteboard); err != nil {
			return err
		}
		if err := need(1, "unlink <link>"); err != nil {
			return err
		}
		if !sess.Whiteboard.RemoveLink(ctx, args[0]) {
			return fmt.Errorf("no link %s to remove", args[0])
		}

	case "check":
		switch sess.Mode() {
		case study.ModeList:
			if !sess.List.QuizMode() {
				return errors.New("list quiz is not active")
			}
			sess.List.Check()
		case study.ModeCategory:
			if !sess.Category.QuizMode() {
				return errors.New("category quiz is not active")
			}
			sess.Category.Check()
		case study.ModeWhiteboard:
			if _, ok := sess.Whiteboard.Check(); !ok {
				return errors.New("whiteboard is not in quiz mode")
			}
		default:
			return inMode(study.ModeList, study.ModeCategory, study.ModeWhiteboard)
		}

	case "reset":
		switch sess.Mode() {
		case study.ModeList:
			sess.List.Reset()
		case study.ModeCategory:
			sess.Category.Reset()
		case study.ModeWhiteboard:
			sess.Whiteboard.Reset()
		default:
			return inMode(study.ModeList, study.ModeCategory, study.ModeWhiteboard)
		}

	default:
		return fmt.Errorf("unknown command %q, type help", name)
	}
	return nil
}
