package report

// Checklist groups are structs of booleans so the set of valid keys is fixed
// at compile time. Unknown keys in stored JSON are dropped silently on load,
// which is the intended forward-compatibility behavior.

// HoodType describes the hood construction found on site.
type HoodType struct {
	Filter    bool `json:"filter"`
	Extractor bool `json:"extractor"`
	WaterWash bool `json:"waterWash"`
}

// FanOptions describes the exhaust fan installation.
type FanOptions struct {
	UpBlast     bool `json:"upBlast"`
	InLine      bool `json:"inLine"`
	Utility     bool `json:"utility"`
	DirectDrive bool `json:"directDrive"`
	Wall        bool `json:"wall"`
	Roof        bool `json:"roof"`
	FanBelt     bool `json:"fanBelt"`
	FanType     bool `json:"fanType"`
	RoofAccess  bool `json:"roofAccess"`
}

// PreCheck records the pre-cleaning inspection.
type PreCheck struct {
	ExhaustFanOperational bool `json:"exhaustFanOperational"`
	ExhaustFanNoisy       bool `json:"exhaustFanNoisy"`
	BareWires             bool `json:"bareWires"`
	HingeKit              bool `json:"hingeKit"`
	FanCleanOut           bool `json:"fanCleanOut"`
	HoodLights            bool `json:"hoodLights"`
	GreaseRoof            bool `json:"greaseRoof"`
}

// ServicePerformed records which cleaning services were actually done.
type ServicePerformed struct {
	HoodCleaned    bool `json:"hoodCleaned"`
	VerticalDuct   bool `json:"verticalDuct"`
	HorizontalDuct bool `json:"horizontalDuct"`
}

// NotCleaned flags which areas were skipped; the reason sub-groups below
// explain why.
type NotCleaned struct {
	Duct  bool `json:"duct"`
	Fan   bool `json:"fan"`
	Other bool `json:"other"`
}

// SkipReasons explains why the duct or another area was not cleaned.
type SkipReasons struct {
	InsufficientAccess bool `json:"insufficientAccess"`
	SevereWeather      bool `json:"severeWeather"`
	InsufficientTime   bool `json:"insufficientTime"`
	Other              bool `json:"other"`
}

// FanSkipReasons explains why the fan was not cleaned; it has two extra
// fan-specific reasons on top of SkipReasons.
type FanSkipReasons struct {
	InsufficientAccess bool `json:"insufficientAccess"`
	SevereWeather      bool `json:"severeWeather"`
	InsufficientTime   bool `json:"insufficientTime"`
	MechanicalIssue    bool `json:"mechanicalIssue"`
	NotAccessible      bool `json:"notAccessible"`
	Other              bool `json:"other"`
}

// PostCheck records the post-cleaning walkthrough.
type PostCheck struct {
	Leaks           bool `json:"leaks"`
	FanRestarted    bool `json:"fanRestarted"`
	PilotLights     bool `json:"pilotLights"`
	CeilingTiles    bool `json:"ceilingTiles"`
	FloorsMopped    bool `json:"floorsMopped"`
	WaterDisposed   bool `json:"waterDisposed"`
	PhotosTaken     bool `json:"photosTaken"`
	BuildingSecured bool `json:"buildingSecured"`
}

// Checklist aggregates every boolean group on the form.
type Checklist struct {
	Hood             HoodType         `json:"hoodType"`
	DamperOperates   bool             `json:"damperOperates"`
	FilterConfirming bool             `json:"filterConfirming"`
	Fan              FanOptions       `json:"fanOptions"`
	Pre              PreCheck         `json:"preCheck"`
	Service          ServicePerformed `json:"servicePerformed"`
	NotCleaned       NotCleaned       `json:"notCleaned"`
	DuctReasons      SkipReasons      `json:"ductReasons"`
	FanReasons       FanSkipReasons   `json:"fanReasons"`
	OtherReasons     SkipReasons      `json:"otherReasons"`
	Post             PostCheck        `json:"postCheck"`
}

// Item is one label/answer pair for rendering.
type Item struct {
	Label   string
	Checked bool
}

// Items returns the hood rows in form order, including the two hood-level
// flags that print alongside the hood type.
func (h HoodType) Items(damper, filterConfirming bool) []Item {
	return []Item{
		{"Filter", h.Filter},
		{"Extractor", h.Extractor},
		{"Water Wash Hood", h.WaterWash},
		{"Damper Operates Properly", damper},
		{"Filter Confirming And In Place", filterConfirming},
	}
}

func (f FanOptions) Items() []Item {
	return []Item{
		{"Up Blast", f.UpBlast},
		{"In-Line", f.InLine},
		{"Utility", f.Utility},
		{"Direct Drive", f.DirectDrive},
		{"Wall", f.Wall},
		{"Roof", f.Roof},
		{"Fan Belt", f.FanBelt},
		{"Fan Type / Interior Accessible", f.FanType},
		{"Roof Access", f.RoofAccess},
	}
}

func (p PreCheck) Items() []Item {
	return []Item{
		{"Exhaust Fan Operational", p.ExhaustFanOperational},
		{"Exhaust Fan Noisy/Off Balance", p.ExhaustFanNoisy},
		{"Bare Or Exposed Wires", p.BareWires},
		{"Hinge Kit Needed For Fan", p.HingeKit},
		{"Fan Clean Out Port Required", p.FanCleanOut},
		{"Hood Lights Operational", p.HoodLights},
		{"Grease Accumulation On Roof", p.GreaseRoof},
	}
}

func (s ServicePerformed) Items() []Item {
	return []Item{
		{"Hood Cleaned", s.HoodCleaned},
		{"Vertical Duct Cleaned", s.VerticalDuct},
		{"Horizontal Duct Cleaned", s.HorizontalDuct},
	}
}

func (n NotCleaned) Items() []Item {
	return []Item{
		{"Duct", n.Duct},
		{"Fan", n.Fan},
		{"Other", n.Other},
	}
}

func (s SkipReasons) Items() []Item {
	return []Item{
		{"Insufficient Access", s.InsufficientAccess},
		{"Severe Weather", s.SevereWeather},
		{"Insufficient Time", s.InsufficientTime},
		{"Other", s.Other},
	}
}

func (f FanSkipReasons) Items() []Item {
	return []Item{
		{"Unable To Remove/Open Fan", f.NotAccessible},
		{"Insufficient Access", f.InsufficientAccess},
		{"Severe Weather", f.SevereWeather},
		{"Insufficient Time", f.InsufficientTime},
		{"Mechanical Issue", f.MechanicalIssue},
		{"Other", f.Other},
	}
}

func (p PostCheck) Items() []Item {
	return []Item{
		{"Any Exhaust System Leaks", p.Leaks},
		{"Exhaust Fan Restarted", p.FanRestarted},
		{"Pilot Lights Relit", p.PilotLights},
		{"Ceiling Tiles Replaced", p.CeilingTiles},
		{"Floors Mopped", p.FloorsMopped},
		{"Water Properly Disposed Of", p.WaterDisposed},
		{"Photos Taken", p.PhotosTaken},
		{"Building Properly Secured", p.BuildingSecured},
	}
}
