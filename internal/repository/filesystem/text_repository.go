package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"bilara-reader-be/internal/entity"
	"bilara-reader-be/internal/pkg/serverutils"
	"bilara-reader-be/internal/repository/contract"
	"bilara-reader-be/pkg/bilara"
)

// TextRepository reads segmented texts from the bilara archive layout:
//
//	<dir>/skeleton/<uid>.html
//	<dir>/root/<uid>.json
//	<dir>/translation/<uid>_<lang>.json
//	<dir>/reference/<uid>.json
//	<dir>/variant/<uid>.json
//	<dir>/comment/<uid>_<lang>.json
//	<dir>/publication/<uid>_<lang>.json
//
// Only the skeleton is mandatory; every overlay is optional.
type TextRepository struct {
	dir string
}

func NewTextRepository(dir string) contract.TextRepository {
	return &TextRepository{dir: dir}
}

type publicationFile struct {
	RootLang string `json:"root_lang"`
	Lang     string `json:"lang"`
	Author   string `json:"author_uid"`
	Title    string `json:"title"`
}

func (r *TextRepository) GetDocument(ctx context.Context, uid, lang string) (*entity.Document, error) {
	fileUid := uid
	skeleton, err := os.ReadFile(filepath.Join(r.dir, "skeleton", uid+".html"))
	if os.IsNotExist(err) {
		// The uid may name a sub-work of a bundled document; find the
		// archive file whose range covers it.
		if resolved, ok := r.resolveBundledUid(uid); ok {
			fileUid = resolved
			skeleton, err = os.ReadFile(filepath.Join(r.dir, "skeleton", fileUid+".html"))
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: text %s", serverutils.ErrNotFound, uid)
		}
		return nil, err
	}

	doc := &entity.Document{
		Uid:      fileUid,
		Skeleton: string(skeleton),
		Publication: entity.Publication{
			Uid:             uid,
			TranslationLang: lang,
		},
	}

	if segments, lang, err := r.readSource("root", fileUid); err != nil {
		return nil, err
	} else if segments != nil {
		doc.Overlays.Root = &bilara.TextSource{Lang: lang, Segments: segments}
	}

	if segments, err := r.readOverlay(filepath.Join(r.dir, "translation", fileUid+"_"+lang+".json")); err != nil {
		return nil, err
	} else if segments != nil {
		doc.Overlays.Translation = &bilara.TextSource{Lang: lang, Segments: segments}
	}

	for _, kind := range []struct {
		name   string
		target *bilara.Overlay
	}{
		{"reference", &doc.Overlays.Reference},
		{"variant", &doc.Overlays.Variant},
	} {
		segments, err := r.readOverlay(filepath.Join(r.dir, kind.name, fileUid+".json"))
		if err != nil {
			return nil, err
		}
		*kind.target = segments
	}

	if segments, err := r.readOverlay(filepath.Join(r.dir, "comment", fileUid+"_"+lang+".json")); err != nil {
		return nil, err
	} else {
		doc.Overlays.Comment = segments
	}

	if err := r.readPublication(fileUid, lang, doc); err != nil {
		return nil, err
	}

	return doc, nil
}

var (
	// "mn1.7" style: ranged bundles use "<work>.<start>-<end>" file names.
	dottedOrdinal = regexp.MustCompile(`^(.+)\.(\d+)$`)
	dottedRange   = regexp.MustCompile(`^(.+)\.(\d+)-(\d+)$`)
	// "dhp5" style: verse collections use "<work><start>-<end>" file names.
	verseOrdinal = regexp.MustCompile(`^([a-z]+)(\d+)$`)
	verseRange   = regexp.MustCompile(`^([a-z]+)(\d+)-(\d+)$`)
)

// resolveBundledUid scans the skeleton directory for the bundle covering a
// sub-work uid. Returns the archive uid of the covering file.
func (r *TextRepository) resolveBundledUid(uid string) (string, bool) {
	entries, err := os.ReadDir(filepath.Join(r.dir, "skeleton"))
	if err != nil {
		return "", false
	}

	var work string
	var ordinal int
	var rangePattern *regexp.Regexp
	if m := dottedOrdinal.FindStringSubmatch(uid); m != nil {
		work = m[1]
		ordinal, _ = strconv.Atoi(m[2])
		rangePattern = dottedRange
	} else if m := verseOrdinal.FindStringSubmatch(uid); m != nil {
		work = m[1]
		ordinal, _ = strconv.Atoi(m[2])
		rangePattern = verseRange
	} else {
		return "", false
	}

	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".html")
		m := rangePattern.FindStringSubmatch(name)
		if m == nil || m[1] != work {
			continue
		}
		start, _ := strconv.Atoi(m[2])
		end, _ := strconv.Atoi(m[3])
		if ordinal >= start && ordinal <= end {
			return name, true
		}
	}
	return "", false
}

// readSource loads a root-style source whose language is embedded in the file
// as "_lang", falling back to pli when absent.
func (r *TextRepository) readSource(kind, uid string) (bilara.Overlay, string, error) {
	raw, err := os.ReadFile(filepath.Join(r.dir, kind, uid+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", err
	}

	var all map[string]string
	if err := json.Unmarshal(raw, &all); err != nil {
		return nil, "", fmt.Errorf("parse %s overlay for %s: %w", kind, uid, err)
	}

	lang := "pli"
	segments := make(bilara.Overlay, len(all))
	for k, v := range all {
		if k == "_lang" {
			lang = v
			continue
		}
		segments[bilara.SegmentID(k)] = v
	}
	return segments, lang, nil
}

func (r *TextRepository) readOverlay(path string) (bilara.Overlay, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var segments bilara.Overlay
	if err := json.Unmarshal(raw, &segments); err != nil {
		return nil, fmt.Errorf("parse overlay %s: %w", filepath.Base(path), err)
	}
	return segments, nil
}

func (r *TextRepository) readPublication(uid, lang string, doc *entity.Document) error {
	raw, err := os.ReadFile(filepath.Join(r.dir, "publication", uid+"_"+lang+".json"))
	if err != nil {
		if os.IsNotExist(err) {
			if doc.Overlays.Root != nil {
				doc.Publication.RootLang = doc.Overlays.Root.Lang
			}
			return nil
		}
		return err
	}

	var pub publicationFile
	if err := json.Unmarshal(raw, &pub); err != nil {
		return fmt.Errorf("parse publication for %s: %w", uid, err)
	}
	doc.Publication.RootLang = pub.RootLang
	doc.Publication.Author = pub.Author
	doc.Publication.Title = pub.Title
	if pub.Lang != "" {
		doc.Publication.TranslationLang = pub.Lang
	}
	if doc.Overlays.Translation != nil {
		doc.Overlays.Translation.Author = pub.Author
	}
	return nil
}
