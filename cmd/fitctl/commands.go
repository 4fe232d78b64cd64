package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/2beens/fitcoach/internal/backup"
	"github.com/2beens/fitcoach/internal/config"
	"github.com/2beens/fitcoach/internal/datastore"
	"github.com/2beens/fitcoach/internal/fitness"
	"github.com/2beens/fitcoach/pkg"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var errMissingConfig = errors.New("no config and no --data path given")

// dataFile resolves the data file from --data, falling back to the config file.
func (o *rootOptions) dataFile() (string, *config.Config, error) {
	cfg, err := config.Load(o.env, o.configPath)
	if err != nil && o.dataPath == "" {
		return "", nil, fmt.Errorf("%w: %w", errMissingConfig, err)
	}
	if o.dataPath != "" {
		return o.dataPath, cfg, nil
	}
	return cfg.DataFilePath, cfg, nil
}

func (o *rootOptions) loadDocument(ctx context.Context) (*fitness.Document, *config.Config, error) {
	path, cfg, err := o.dataFile()
	if err != nil {
		return nil, nil, err
	}
	doc, err := datastore.NewFileStore(path).Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return doc, cfg, nil
}

func newHashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print the bcrypt hash to use as FITCOACH_PASSWORD_HASH",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && !errors.Is(err, io.EOF) {
					return fmt.Errorf("read password: %w", err)
				}
				password = strings.TrimRight(line, "\r\n")
			}
			if password == "" {
				return errors.New("password empty")
			}

			hash, err := pkg.HashPassword(password)
			if err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), hash)
			return err
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show streak, PRs and current weight",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, _, err := opts.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStatus(doc, time.Now()))
			return err
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the whole data document as json or yaml",
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, _, err := opts.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			out, err := exportDocument(doc, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format [json | yaml]")
	return cmd
}

func exportDocument(doc *fitness.Document, format string) ([]byte, error) {
	data, err := datastore.Encode(doc)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(format) {
	case "json":
		return data, nil
	case "yaml", "yml":
		// go through the JSON form so field names and log values match the data file
		var generic map[string]any
		if err := json.Unmarshal(data, &generic); err != nil {
			return nil, fmt.Errorf("decode document: %w", err)
		}
		return yaml.Marshal(generic)
	default:
		return nil, fmt.Errorf("unknown format: %s", format)
	}
}

func newBackupCmd(opts *rootOptions) *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload the data file to the configured backup targets",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := godotenv.Load(envFile); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "no env file loaded [%s]\n", envFile)
			}

			doc, cfg, err := opts.loadDocument(cmd.Context())
			if err != nil {
				return err
			}
			if cfg == nil {
				return errMissingConfig
			}

			service, err := backupService(cmd.Context(), cfg, filepath.Base(opts.dataPathOr(cfg)))
			if err != nil {
				return err
			}

			report, err := service.Sync(cmd.Context(), doc)
			if report != nil {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), renderBackupReport(report))
			}
			return err
		},
	}
	cmd.Flags().StringVar(&envFile, "envfile", ".env", "optional dotenv file with secrets")
	return cmd
}

func (o *rootOptions) dataPathOr(cfg *config.Config) string {
	if o.dataPath != "" {
		return o.dataPath
	}
	return cfg.DataFilePath
}

func backupService(ctx context.Context, cfg *config.Config, fileName string) (*backup.Service, error) {
	var uploaders []backup.Uploader
	if owner, repo, ok := cfg.GithubBackupOwnerRepo(); ok {
		if token := os.Getenv("GITHUB_TOKEN"); token != "" {
			uploaders = append(uploaders, backup.NewGithubUploader(nil, token, owner, repo, cfg.GithubBackupBranch))
		}
	}
	if credentialsFile := os.Getenv("GDRIVE_CREDENTIALS_FILE"); credentialsFile != "" {
		credentials, err := os.ReadFile(credentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read drive credentials: %w", err)
		}
		driveUploader, err := backup.NewDriveUploader(ctx, credentials, cfg.DriveBackupFolder)
		if err != nil {
			return nil, err
		}
		uploaders = append(uploaders, driveUploader)
	}
	return backup.NewService(fileName, nil, uploaders...), nil
}

func newOneRepMaxCmd() *cobra.Command {
	var (
		weight float64
		reps   int
	)
	cmd := &cobra.Command{
		Use:   "onerepmax",
		Short: "Estimate a one rep max from a set",
		RunE: func(cmd *cobra.Command, _ []string) error {
			oneRepMax, ok := fitness.EstimateOneRepMax(weight, reps)
			if !ok {
				return errors.New("weight and reps must both be positive")
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "Estimated 1RM: %d lbs\n", oneRepMax)
			return err
		},
	}
	cmd.Flags().Float64Var(&weight, "weight", 0, "lifted weight (lbs)")
	cmd.Flags().IntVar(&reps, "reps", 0, "repetitions")
	return cmd
}
