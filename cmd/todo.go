package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/tend/internal/cli"
)

var (
	flagTodoDue string
	flagTodoAll bool
)

var todoCmd = &cobra.Command{
	Use:     "todo",
	Aliases: []string{"todos"},
	Short:   "List open to-dos",
	RunE:    runTodoList,
}

var todoAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a to-do",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoAdd,
}

var todoDoneCmd = &cobra.Command{
	Use:   "done <id>",
	Short: "Toggle a to-do between open and done",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoDone,
}

var todoRmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a to-do",
	Args:  cobra.ExactArgs(1),
	RunE:  runTodoRm,
}

func init() {
	todoCmd.Flags().BoolVarP(&flagTodoAll, "all", "a", false, "Include completed to-dos")
	todoAddCmd.Flags().StringVar(&flagTodoDue, "due", "", "Due day as YYYY-MM-DD")

	todoCmd.AddCommand(todoAddCmd, todoDoneCmd, todoRmCmd)
	rootCmd.AddCommand(todoCmd)
}

func runTodoList(_ *cobra.Command, _ []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	today, err := dayArg("")
	if err != nil {
		return err
	}

	todos := s.st.Todos()
	// Dated items first, earliest due first; undated ones by creation.
	sort.SliceStable(todos, func(i, j int) bool {
		a, b := todos[i], todos[j]
		if (a.Due == "") != (b.Due == "") {
			return a.Due != ""
		}
		if a.Due != b.Due {
			return a.Due < b.Due
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	var rows [][]string
	for _, td := range todos {
		if td.Done && !flagTodoAll {
			continue
		}
		mark := "[ ]"
		if td.Done {
			mark = "[x]"
		}
		due := td.Due
		if !td.Done && td.Due != "" && td.Due < today {
			due = cli.RenderAlert(td.Due)
		}
		rows = append(rows, []string{shortID(td.ID), mark, td.Title, due})
	}
	if len(rows) == 0 {
		fmt.Println("\n  Nothing to do.")
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:     "To-dos",
		Headers:   []string{"ID", "", "Title", "Due"},
		Rows:      rows,
		LeftAlign: true,
	}))
	return nil
}

func runTodoAdd(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	td, err := s.st.AddTodo(args[0], flagTodoDue)
	if err != nil {
		return err
	}
	fmt.Printf("  Added %q (%s)\n", td.Title, shortID(td.ID))
	return nil
}

func runTodoDone(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	td, err := s.st.ToggleTodo(args[0])
	if err != nil {
		return err
	}
	if td.Done {
		fmt.Printf("  Done: %s\n", td.Title)
	} else {
		fmt.Printf("  Reopened: %s\n", td.Title)
	}
	return nil
}

func runTodoRm(_ *cobra.Command, args []string) error {
	s, err := openSession()
	if err != nil {
		return err
	}
	defer s.Close()

	if err := s.st.DeleteTodo(args[0]); err != nil {
		return err
	}
	fmt.Println("  To-do deleted.")
	return nil
}
