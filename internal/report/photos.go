package report

// Category names one of the ordered photo collections on a report.
type Category string

const (
	CategoryBefore     Category = "before"
	CategoryAfter      Category = "after"
	CategoryExhaustFan Category = "exhaustFan"
	CategoryDuctFan    Category = "ductFan"
	CategoryCanopy     Category = "canopy"
)

// Categories lists every photo category in document order.
var Categories = []Category{
	CategoryBefore,
	CategoryAfter,
	CategoryExhaustFan,
	CategoryDuctFan,
	CategoryCanopy,
}

// Service tags control which of the service photo categories are rendered.
const (
	ServiceExhaust = "exhaust"
	ServiceDuct    = "duct"
	ServiceCanopy  = "canopy"
)

// ServiceFor returns the service tag gating a category, or "" for the
// before/after categories, which are never gated.
func ServiceFor(cat Category) string {
	switch cat {
	case CategoryExhaustFan:
		return ServiceExhaust
	case CategoryDuctFan:
		return ServiceDuct
	case CategoryCanopy:
		return ServiceCanopy
	default:
		return ""
	}
}

// ServiceSet is the set of selected service tags.
type ServiceSet []string

// Has reports whether the tag is selected.
func (s ServiceSet) Has(tag string) bool {
	for _, t := range s {
		if t == tag {
			return true
		}
	}
	return false
}

// PhotoSet holds the ordered photo collections plus the legacy single
// before/after references and the signature reference. A photo reference is
// an opaque URI in one of four forms: local file path or file:// URI,
// content:// URI, remote http(s) URL, or inline data: URI. Order within each
// collection is the display order in the document.
type PhotoSet struct {
	Before     []string `json:"beforePhotos"`
	After      []string `json:"afterPhotos"`
	ExhaustFan []string `json:"exhaustFanPhotos"`
	DuctFan    []string `json:"ductFanPhotos"`
	Canopy     []string `json:"canopyPhotos"`

	LegacyBefore string `json:"beforePhoto,omitempty"`
	LegacyAfter  string `json:"afterPhoto,omitempty"`
	Signature    string `json:"signature,omitempty"`

	// StoragePaths maps an uploaded public URL back to its object-storage
	// path, recorded at upload time so delete-time cleanup never has to
	// reconstruct paths from URL shapes.
	StoragePaths map[string]string `json:"storagePaths,omitempty"`
}

// Get returns the collection for a category. The returned slice aliases the
// set; callers that mutate should go through Append/RemoveAt or the reducer.
func (p *PhotoSet) Get(cat Category) []string {
	switch cat {
	case CategoryBefore:
		return p.Before
	case CategoryAfter:
		return p.After
	case CategoryExhaustFan:
		return p.ExhaustFan
	case CategoryDuctFan:
		return p.DuctFan
	case CategoryCanopy:
		return p.Canopy
	}
	return nil
}

func (p *PhotoSet) set(cat Category, uris []string) {
	switch cat {
	case CategoryBefore:
		p.Before = uris
	case CategoryAfter:
		p.After = uris
	case CategoryExhaustFan:
		p.ExhaustFan = uris
	case CategoryDuctFan:
		p.DuctFan = uris
	case CategoryCanopy:
		p.Canopy = uris
	}
}

// Append adds a photo reference to the end of a category.
func (p *PhotoSet) Append(cat Category, uri string) {
	p.set(cat, append(p.Get(cat), uri))
}

// RemoveAt removes the reference at index i; out-of-range indexes are a
// no-op.
func (p *PhotoSet) RemoveAt(cat Category, i int) {
	uris := p.Get(cat)
	if i < 0 || i >= len(uris) {
		return
	}
	p.set(cat, append(uris[:i:i], uris[i+1:]...))
}

// RecordPath remembers the object-storage path for an uploaded URL.
func (p *PhotoSet) RecordPath(url, path string) {
	if p.StoragePaths == nil {
		p.StoragePaths = make(map[string]string)
	}
	p.StoragePaths[url] = path
}

// AllRefs returns every photo and signature reference on the set, in
// document order. Used for delete-time storage cleanup.
func (p *PhotoSet) AllRefs() []string {
	var refs []string
	for _, cat := range Categories {
		refs = append(refs, p.Get(cat)...)
	}
	for _, single := range []string{p.LegacyBefore, p.LegacyAfter, p.Signature} {
		if single != "" {
			refs = append(refs, single)
		}
	}
	return refs
}

// clone deep-copies the photo set so reducer results never alias their
// input.
func (p PhotoSet) clone() PhotoSet {
	out := p
	out.Before = append([]string(nil), p.Before...)
	out.After = append([]string(nil), p.After...)
	out.ExhaustFan = append([]string(nil), p.ExhaustFan...)
	out.DuctFan = append([]string(nil), p.DuctFan...)
	out.Canopy = append([]string(nil), p.Canopy...)
	if p.StoragePaths != nil {
		out.StoragePaths = make(map[string]string, len(p.StoragePaths))
		for k, v := range p.StoragePaths {
			out.StoragePaths[k] = v
		}
	}
	return out
}
