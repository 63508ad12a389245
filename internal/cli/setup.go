package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/anatolykoptev/go_apply/internal/engine"
	"github.com/anatolykoptev/go_apply/internal/engine/jobs"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Scaffold config, directories and the tracker database",
	Long: `setup prepares a fresh checkout: it creates the output directories,
writes an example config.json, .env template and resume data file where
none exist, and creates the tracker database. Existing files are never
overwritten, so re-running it is safe.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	for _, dir := range []string{
		engine.Cfg.OutputDir,
		engine.Cfg.ProcessedDir,
		filepath.Dir(engine.Cfg.ResumePath),
	} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("cli: mkdir %s: %w", dir, err)
		}
		fmt.Println("dir ready:", dir)
	}

	files := []struct {
		path    string
		content string
		hint    string
	}{
		{configPath, exampleConfig, "edit the search plan"},
		{".env.example", exampleEnv, "copy to .env and fill in your keys"},
		{engine.Cfg.ResumePath, exampleResume, "replace with your real resume data"},
	}
	for _, f := range files {
		wrote, err := writeIfAbsent(f.path, f.content)
		if err != nil {
			return fmt.Errorf("cli: write %s: %w", f.path, err)
		}
		if wrote {
			fmt.Printf("wrote %s (%s)\n", f.path, f.hint)
		} else {
			fmt.Println("kept existing", f.path)
		}
	}

	// Re-running setup after editing the resume doubles as a syntax check.
	if r, err := jobs.LoadBaseResume(engine.Cfg.ResumePath); err != nil {
		fmt.Println("resume needs attention:", err)
	} else {
		fmt.Printf("resume parsed: %s, %d roles, %d skills\n",
			r.Personal.Name, len(r.Experience), len(jobs.FlattenSkills(r.Skills)))
	}

	trackerPath, err := jobs.DefaultTrackerPath()
	if err != nil {
		return err
	}
	tracker, err := jobs.OpenTracker(trackerPath)
	if err != nil {
		return err
	}
	defer tracker.Close()
	fmt.Println("tracker ready:", trackerPath)
	return nil
}

func writeIfAbsent(path, content string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, err
	}
	return true, nil
}
