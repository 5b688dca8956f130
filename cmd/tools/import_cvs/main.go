package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"hr-pipeline/internal/config"
	"hr-pipeline/internal/gateway"
	"hr-pipeline/internal/intake"
	"hr-pipeline/internal/pipeline"
	"hr-pipeline/internal/session"
	"hr-pipeline/internal/view"
)

func main() {
	var dir string
	var requirementID string
	var dryRun bool
	flag.StringVar(&dir, "dir", "", "Directory of CV files named Name_Mobile_Source.<ext>")
	flag.StringVar(&requirementID, "requirement", "", "Requirement id to source candidates against")
	flag.BoolVar(&dryRun, "dry-run", false, "Classify only; do not upload")
	flag.Parse()

	if dir == "" {
		log.Fatal("-dir is required")
	}

	cfg := config.Load()

	files, err := scanDir(dir)
	if err != nil {
		log.Fatalf("failed to scan %s: %v", dir, err)
	}
	log.Printf("Found %d files in %s", len(files), dir)

	accepted, rejected := intake.Classify(files)
	for _, rej := range rejected {
		log.Printf("REJECTED %s: %s", rej.File.Name, rej.Reason)
	}
	log.Printf("Classification: %d accepted, %d rejected", len(accepted), len(rejected))

	if dryRun {
		return
	}
	if cfg.APIUser == "" || cfg.APIPassword == "" {
		log.Fatal("set HR_API_USER and HR_API_PASSWORD to upload")
	}

	sess := session.New()
	sess.OnLogout(func() { log.Println("Session expired, please log in again") })
	client := gateway.NewClient(cfg.APIBaseURL, sess, cfg.RequestTimeout)

	ctx := context.Background()
	if err := client.Login(ctx, cfg.APIUser, cfg.APIPassword); err != nil {
		log.Fatalf("login failed: %v", err)
	}

	batch := make([]pipeline.IntakeCandidate, 0, len(accepted))
	for _, rec := range accepted {
		batch = append(batch, pipeline.IntakeCandidate{
			Name:     rec.Name,
			Mobile:   rec.Mobile,
			Source:   rec.Source,
			FileName: rec.File.Name,
			FilePath: rec.File.Path,
		})
	}

	store := pipeline.NewStore()
	engine := pipeline.NewEngine(store, client, sess)

	created, err := engine.Ingest(ctx, requirementID, batch)
	if err != nil {
		log.Fatalf("upload failed: %v", err)
	}

	log.Printf("Uploaded %d candidates for requirement %s", len(created), requirementID)
	for _, row := range view.Project(store.All(), pipeline.StageShortlisting) {
		fmt.Printf("%s  %s  %s  [%s]\n", row.ID, row.Name, row.Mobile, row.Status)
	}
}

func scanDir(dir string) ([]intake.File, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []intake.File
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			return nil, err
		}
		files = append(files, intake.File{
			Name: e.Name(),
			Size: info.Size(),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return files, nil
}
