package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/existflow/famtodo/internal/config"
	"github.com/existflow/famtodo/internal/db"
	"github.com/existflow/famtodo/internal/model"
)

// errNoProfile is returned when neither --profile nor a current profile is set
var errNoProfile = errors.New("no profile selected: run 'famtodo profile use <name>' or pass --profile")

// Context file path
func contextFilePath() (string, error) {
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "profile"), nil
}

// GetCurrentProfile returns the name of the current profile (empty means none)
func GetCurrentProfile() string {
	path, err := contextFilePath()
	if err != nil {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}

// SetCurrentProfile saves the current profile name
func SetCurrentProfile(name string) error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(name), 0644)
}

// ClearCurrentProfile removes the context file
func ClearCurrentProfile() error {
	path, err := contextFilePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// resolveProfile picks the --profile flag first, then the context file
func resolveProfile(ctx context.Context, database *db.DB) (model.Profile, error) {
	name := strings.TrimSpace(profileFlag)
	if name == "" {
		name = GetCurrentProfile()
	}
	if name == "" {
		return model.Profile{}, errNoProfile
	}

	profile, err := database.ProfileByName(ctx, name)
	if errors.Is(err, db.ErrNotFound) {
		return model.Profile{}, fmt.Errorf("profile %q not found: create it with 'famtodo profile new %s'", name, name)
	}
	return profile, err
}
