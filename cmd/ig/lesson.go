package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	lessonCategory string
	lessonIntentID string
)

var lessonCmd = &cobra.Command{
	Use:   "lesson",
	Short: "Capture lessons into the shared knowledge log",
}

var lessonAddCmd = &cobra.Command{
	Use:   "add <text>",
	Short: "Append a lesson to the knowledge log",
	Long: `Append one lesson to the shared knowledge log.

Lessons are free text, optionally categorized and linked to an intent. The
log is append-only markdown, meant to be read by the next session.

Example:
  ig lesson add "parser chokes on BOM-prefixed files" --category gotcha --intent INT-001`,
	Args: cobra.ExactArgs(1),
	RunE: runLessonAdd,
}

var lessonShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the knowledge log",
	RunE:  runLessonShow,
}

func init() {
	lessonAddCmd.Flags().StringVar(&lessonCategory, "category", "", "Grouping label (e.g. gotcha, pattern)")
	lessonAddCmd.Flags().StringVar(&lessonIntentID, "intent", "", "Intent id this lesson relates to")

	lessonCmd.AddCommand(lessonAddCmd)
	lessonCmd.AddCommand(lessonShowCmd)
	rootCmd.AddCommand(lessonCmd)
}

func runLessonAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}
	engine := buildEngine(cfg, store)

	if err := engine.RecordLesson(args[0], lessonCategory, lessonIntentID); err != nil {
		return err
	}
	fmt.Println("Lesson recorded.")
	return nil
}

func runLessonShow(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store := openStore(cfg)
	if err := requireInitialized(store); err != nil {
		return err
	}

	data, err := os.ReadFile(store.KnowledgePath())
	if err != nil {
		return err
	}
	fmt.Print(string(data))
	return nil
}
