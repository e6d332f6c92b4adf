package main

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"

	"bilara-reader-be/internal/repository/filesystem"
	"bilara-reader-be/pkg/bilara"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
)

// Walks the text archive and checks that every skeleton parses and that its
// overlays merge cleanly. Run before deploying a fresh archive snapshot.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dataDir := os.Getenv("TEXT_DATA_DIR")
	if dataDir == "" {
		dataDir = "./data"
	}
	lang := os.Getenv("READER_DEFAULT_LANG")
	if lang == "" {
		lang = "en"
	}

	color.Cyan("🚀 Verifying text archive at %s (lang=%s)\n", dataDir, lang)

	entries, err := os.ReadDir(filepath.Join(dataDir, "skeleton"))
	if err != nil {
		color.Red("Failed to read skeleton directory: %v", err)
		os.Exit(1)
	}

	repo := filesystem.NewTextRepository(dataDir)
	ctx := context.Background()

	var ok, bad int
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		uid := strings.TrimSuffix(e.Name(), ".html")

		doc, err := repo.GetDocument(ctx, uid, lang)
		if err != nil {
			color.Red("[%s] load failed: %v", uid, err)
			bad++
			continue
		}

		sk, err := bilara.ParseSkeleton(doc.Skeleton)
		if err != nil {
			color.Red("[%s] skeleton parse failed: %v", uid, err)
			bad++
			continue
		}

		if err := bilara.Merge(sk, doc.Overlays, nil); err != nil {
			color.Red("[%s] merge failed: %v", uid, err)
			bad++
			continue
		}

		segments := len(sk.SegmentIDs())
		if segments == 0 {
			color.Yellow("[%s] no segments", uid)
		}
		ok++
	}

	color.Green("\nVerified %d documents, %d failures", ok, bad)
	if bad > 0 {
		os.Exit(1)
	}
}
