package report

import (
	"encoding/json"
	"fmt"
	"time"
)

// Stored reports exist in three shapes: the current canonical one, a legacy
// flattened shape whose photo arrays sit at the top level, and a legacy shape
// with photos nested under a "photos" object. Both legacy shapes mix client,
// technician, and signature fields into a single "clientData" object. The
// loader normalizes any recognized shape into the canonical Record so nothing
// else in the system sees schema drift.

type legacyClientData struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	Address        string `json:"address"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	Technician     string `json:"technician"`
	Certification  string `json:"certification"`
	ServiceDate    string `json:"serviceDate"`
	NextService    string `json:"nextService"`
	ScheduledTime  string `json:"scheduledTime"`
	ArrivalTime    string `json:"arrivalTime"`
	DepartureTime  string `json:"departureTime"`
	AdditionalInfo string `json:"additionalInfo"`
	BeforePhoto    string `json:"beforePhoto"`
	AfterPhoto     string `json:"afterPhoto"`
	FanBeltNumber  string `json:"fanBeltNumber"`
	LadderOrLift   string `json:"ladderOrLift"`
	Representative string `json:"ownerRepresentative"`
	Signature      string `json:"signature"`
	ReportDate     string `json:"reportDate"`
}

type legacyPhotos struct {
	Before      []string `json:"beforePhotos"`
	After       []string `json:"afterPhotos"`
	ExhaustFan  []string `json:"exhaustFanPhotos"`
	DuctFan     []string `json:"ductFanPhotos"`
	Canopy      []string `json:"canopyPhotos"`
	BeforeSolo  string   `json:"beforePhoto"`
	AfterSolo   string   `json:"afterPhoto"`
	Signature   string   `json:"signature"`
}

type legacyEnvelope struct {
	ClientData       legacyClientData `json:"clientData"`
	SelectedServices []string         `json:"selectedServices"`
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
	Comments         Comments         `json:"comments"`

	// Top-level photo arrays (oldest shape).
	Before     []string `json:"beforePhotos"`
	After      []string `json:"afterPhotos"`
	ExhaustFan []string `json:"exhaustFanPhotos"`
	DuctFan    []string `json:"ductFanPhotos"`
	Canopy     []string `json:"canopyPhotos"`

	// Nested photos object (newer legacy shape).
	Photos *legacyPhotos `json:"photos"`

	CreatedAt string `json:"createdAt"`
	RemoteID  string `json:"remoteId"`
	OwnerID   string `json:"ownerId"`
}

// DecodeRecord normalizes a single stored report of any recognized shape.
func DecodeRecord(raw []byte) (Record, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Record{}, fmt.Errorf("decode report: %w", err)
	}
	if _, ok := probe["client"]; ok {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return Record{}, fmt.Errorf("decode report: %w", err)
		}
		return rec, nil
	}

	var env legacyEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Record{}, fmt.Errorf("decode legacy report: %w", err)
	}
	return env.toRecord(), nil
}

// DecodeRecords decodes the stored JSON array, tolerating a mix of shapes.
// Entries that cannot be decoded at all are skipped rather than failing the
// whole load.
func DecodeRecords(raw []byte) ([]Record, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decode reports blob: %w", err)
	}
	records := make([]Record, 0, len(items))
	for _, item := range items {
		rec, err := DecodeRecord(item)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

func (env legacyEnvelope) toRecord() Record {
	rec := Record{
		Client: ClientInfo{
			Name:    env.ClientData.Name,
			Email:   env.ClientData.Email,
			Phone:   env.ClientData.Phone,
			Address: env.ClientData.Address,
			City:    env.ClientData.City,
			State:   env.ClientData.State,
			Zip:     env.ClientData.Zip,
		},
		Technician: TechnicianInfo{
			Name:           env.ClientData.Technician,
			Certification:  env.ClientData.Certification,
			ServiceDate:    env.ClientData.ServiceDate,
			NextService:    env.ClientData.NextService,
			ScheduledTime:  env.ClientData.ScheduledTime,
			ArrivalTime:    env.ClientData.ArrivalTime,
			DepartureTime:  env.ClientData.DepartureTime,
			FanBeltNumber:  env.ClientData.FanBeltNumber,
			LadderOrLift:   env.ClientData.LadderOrLift,
			Representative: env.ClientData.Representative,
			ReportDate:     env.ClientData.ReportDate,
			AdditionalInfo: env.ClientData.AdditionalInfo,
		},
		Checklist: Checklist{
			Hood:             env.Hood,
			DamperOperates:   env.DamperOperates,
			FilterConfirming: env.FilterConfirming,
			Fan:              env.Fan,
			Pre:              env.Pre,
			Service:          env.Service,
			NotCleaned:       env.NotCleaned,
			DuctReasons:      env.DuctReasons,
			FanReasons:       env.FanReasons,
			OtherReasons:     env.OtherReasons,
			Post:             env.Post,
		},
		Comments: env.Comments,
		Services: ServiceSet(env.SelectedServices),
		RemoteID: env.RemoteID,
		OwnerID:  env.OwnerID,
	}

	rec.Photos = PhotoSet{
		Before:       env.Before,
		After:        env.After,
		ExhaustFan:   env.ExhaustFan,
		DuctFan:      env.DuctFan,
		Canopy:       env.Canopy,
		LegacyBefore: env.ClientData.BeforePhoto,
		LegacyAfter:  env.ClientData.AfterPhoto,
		Signature:    env.ClientData.Signature,
	}
	if env.Photos != nil {
		if rec.Photos.Before == nil {
			rec.Photos.Before = env.Photos.Before
		}
		if rec.Photos.After == nil {
			rec.Photos.After = env.Photos.After
		}
		if rec.Photos.ExhaustFan == nil {
			rec.Photos.ExhaustFan = env.Photos.ExhaustFan
		}
		if rec.Photos.DuctFan == nil {
			rec.Photos.DuctFan = env.Photos.DuctFan
		}
		if rec.Photos.Canopy == nil {
			rec.Photos.Canopy = env.Photos.Canopy
		}
		if env.Photos.BeforeSolo != "" {
			rec.Photos.LegacyBefore = env.Photos.BeforeSolo
		}
		if env.Photos.AfterSolo != "" {
			rec.Photos.LegacyAfter = env.Photos.AfterSolo
		}
		if env.Photos.Signature != "" {
			rec.Photos.Signature = env.Photos.Signature
		}
	}

	if env.CreatedAt != "" {
		if ts, err := time.Parse(time.RFC3339, env.CreatedAt); err == nil {
			rec.CreatedAt = ts
		}
	}
	return rec
}
