package report

// The original form kept dozens of independent state slices mutated through
// ad-hoc setters. Here the whole report is one value and every edit is a
// typed action applied by a pure reducer, so persistence is always a function
// of a single record.

// Action is one edit to a report record.
type Action func(*Record)

// Reduce returns a new record with the actions applied in order. The input
// record is never mutated.
func Reduce(r Record, actions ...Action) Record {
	out := r
	out.Photos = r.Photos.clone()
	out.Services = append(ServiceSet(nil), r.Services...)
	for _, apply := range actions {
		apply(&out)
	}
	return out
}

// SetClient replaces the client block.
func SetClient(c ClientInfo) Action {
	return func(r *Record) { r.Client = c }
}

// ApplyClient overwrites every client field from a directory suggestion.
// This is a full field-for-field copy, not a merge: picking a suggestion
// means "start from this existing client's profile".
func ApplyClient(c ClientInfo) Action {
	return SetClient(c)
}

// SetTechnician replaces the technician block.
func SetTechnician(t TechnicianInfo) Action {
	return func(r *Record) { r.Technician = t }
}

// SetComments replaces the comments block.
func SetComments(c Comments) Action {
	return func(r *Record) { r.Comments = c }
}

// SetHood replaces the hood group and its two hood-level flags.
func SetHood(h HoodType, damper, filterConfirming bool) Action {
	return func(r *Record) {
		r.Checklist.Hood = h
		r.Checklist.DamperOperates = damper
		r.Checklist.FilterConfirming = filterConfirming
	}
}

// SetFan replaces the fan options group.
func SetFan(f FanOptions) Action {
	return func(r *Record) { r.Checklist.Fan = f }
}

// SetPreCheck replaces the pre-cleaning group.
func SetPreCheck(p PreCheck) Action {
	return func(r *Record) { r.Checklist.Pre = p }
}

// SetServicePerformed replaces the service-performed group.
func SetServicePerformed(s ServicePerformed) Action {
	return func(r *Record) { r.Checklist.Service = s }
}

// SetNotCleaned replaces the areas-not-cleaned flags and reason sub-groups.
func SetNotCleaned(n NotCleaned, duct SkipReasons, fan FanSkipReasons, other SkipReasons) Action {
	return func(r *Record) {
		r.Checklist.NotCleaned = n
		r.Checklist.DuctReasons = duct
		r.Checklist.FanReasons = fan
		r.Checklist.OtherReasons = other
	}
}

// SetPostCheck replaces the post-cleaning group.
func SetPostCheck(p PostCheck) Action {
	return func(r *Record) { r.Checklist.Post = p }
}

// SetServices replaces the selected service tags.
func SetServices(tags ...string) Action {
	return func(r *Record) { r.Services = append(ServiceSet(nil), tags...) }
}

// AppendPhoto appends a photo reference to a category.
func AppendPhoto(cat Category, uri string) Action {
	return func(r *Record) { r.Photos.Append(cat, uri) }
}

// RemovePhoto removes the photo at index i from a category.
func RemovePhoto(cat Category, i int) Action {
	return func(r *Record) { r.Photos.RemoveAt(cat, i) }
}

// SetSignature replaces the signature reference.
func SetSignature(uri string) Action {
	return func(r *Record) { r.Photos.Signature = uri }
}

// Replace swaps the whole record for a previously persisted one (the
// load-for-edit path). Lifecycle metadata comes with it.
func Replace(loaded Record) Action {
	return func(r *Record) { *r = Reduce(loaded) }
}
