package domain

// CatalogSource records where a catalog was loaded from, with enough
// identity to publish it back.
type CatalogSource struct {
	Kind SourceKind
	// Path is the local file path or the path inside the repository.
	Path string

	Repository string // owner/name, remote sources only
	Branch     string
	Revision   string
}

// Clone returns a copy of the source, or nil.
func (s *CatalogSource) Clone() *CatalogSource {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

// ProjectFile is the companion build-project file linked to a catalog.
// Its format is owned by an external editor; only text is kept here.
type ProjectFile struct {
	Name            string
	Content         string
	OriginalContent string
	Dirty           bool
}

// Clone returns a copy of the project file, or nil.
func (p *ProjectFile) Clone() *ProjectFile {
	if p == nil {
		return nil
	}
	c := *p
	return &c
}
