package gormrepo

import (
	"time"

	"github.com/vsinha/mrpplan/pkg/domain/entities"
)

// PartModel is a row of the part master
type PartModel struct {
	PartID           int    `gorm:"primaryKey;autoIncrement:false"`
	Name             string `gorm:"size:64"`
	LeadTime         int    `gorm:"not null"`
	InitialInventory int64  `gorm:"not null"`
	LotSize          int64  `gorm:"not null"`
	MakeOrBuy        string `gorm:"size:8;not null"`
	// BOMLevel holds the low-level code of the latest run, informational only.
	BOMLevel int
}

func (PartModel) TableName() string { return "parts" }

// BOMModel is one parent -> component line
type BOMModel struct {
	ParentID    int   `gorm:"primaryKey;autoIncrement:false"`
	ComponentID int   `gorm:"primaryKey;autoIncrement:false"`
	Multiplier  int64 `gorm:"not null"`
	Level       int
}

func (BOMModel) TableName() string { return "bom" }

// PeriodModel enumerates the horizon 1..H
type PeriodModel struct {
	PeriodID int `gorm:"primaryKey;autoIncrement:false"`
}

func (PeriodModel) TableName() string { return "periods" }

// MRPModel is one (part, period) requirement record of the latest run
type MRPModel struct {
	PartID               int    `gorm:"primaryKey;autoIncrement:false"`
	PeriodID             int    `gorm:"primaryKey;autoIncrement:false"`
	RunID                string `gorm:"size:36;index"`
	GrossRequirements    int64
	ScheduledReceipts    int64
	EndingInventory      int64
	NetRequirements      int64
	PlannedOrderRelease  int64
	PlannedOrderReceipts int64
}

func (MRPModel) TableName() string { return "mrp" }

// RunModel logs every planning run written to the store
type RunModel struct {
	ID             string    `gorm:"primaryKey;size:36"`
	StartedAt      time.Time `gorm:"index;not null"`
	FinishedAt     time.Time
	Horizon        int
	ExplosionBasis string `gorm:"size:16"`
	PartCount      int
	RecordCount    int
	CreatedAt      time.Time
}

func (RunModel) TableName() string { return "planning_runs" }

func toPartModel(p entities.Part) PartModel {
	return PartModel{
		PartID:           int(p.ID),
		Name:             p.Name,
		LeadTime:         p.LeadTime,
		InitialInventory: int64(p.InitialInventory),
		LotSize:          int64(p.LotSize),
		MakeOrBuy:        p.MakeOrBuy.String(),
		BOMLevel:         p.LowLevelCode,
	}
}

func (m PartModel) toEntity() (entities.Part, error) {
	makeOrBuy, err := entities.ParseMakeOrBuy(m.MakeOrBuy)
	if err != nil {
		return entities.Part{}, &entities.ConfigError{
			Kind:   entities.ErrInvalidParameter,
			PartID: entities.PartID(m.PartID),
			Detail: err.Error(),
		}
	}
	return entities.Part{
		ID:               entities.PartID(m.PartID),
		Name:             m.Name,
		LeadTime:         m.LeadTime,
		InitialInventory: entities.Quantity(m.InitialInventory),
		LotSize:          entities.Quantity(m.LotSize),
		MakeOrBuy:        makeOrBuy,
	}, nil
}

func toBOMModel(e entities.BOMEdge) BOMModel {
	return BOMModel{
		ParentID:    int(e.ParentID),
		ComponentID: int(e.ComponentID),
		Multiplier:  int64(e.QtyPer),
		Level:       e.Level,
	}
}

func (m BOMModel) toEntity() entities.BOMEdge {
	return entities.BOMEdge{
		ParentID:    entities.PartID(m.ParentID),
		ComponentID: entities.PartID(m.ComponentID),
		QtyPer:      entities.Quantity(m.Multiplier),
		Level:       m.Level,
	}
}

func toMRPModel(runID string, r entities.RequirementRecord) MRPModel {
	return MRPModel{
		PartID:               int(r.PartID),
		PeriodID:             int(r.PeriodID),
		RunID:                runID,
		GrossRequirements:    int64(r.GrossRequirements),
		ScheduledReceipts:    int64(r.ScheduledReceipts),
		EndingInventory:      int64(r.EndingInventory),
		NetRequirements:      int64(r.NetRequirements),
		PlannedOrderRelease:  int64(r.PlannedOrderRelease),
		PlannedOrderReceipts: int64(r.PlannedOrderReceipts),
	}
}

func (m MRPModel) toEntity() entities.RequirementRecord {
	return entities.RequirementRecord{
		PartID:               entities.PartID(m.PartID),
		PeriodID:             entities.PeriodID(m.PeriodID),
		GrossRequirements:    entities.Quantity(m.GrossRequirements),
		ScheduledReceipts:    entities.Quantity(m.ScheduledReceipts),
		EndingInventory:      entities.Quantity(m.EndingInventory),
		NetRequirements:      entities.Quantity(m.NetRequirements),
		PlannedOrderRelease:  entities.Quantity(m.PlannedOrderRelease),
		PlannedOrderReceipts: entities.Quantity(m.PlannedOrderReceipts),
	}
}

func toRunModel(run entities.PlanningRun) RunModel {
	return RunModel{
		ID:             run.ID.String(),
		StartedAt:      run.StartedAt,
		FinishedAt:     run.FinishedAt,
		Horizon:        int(run.Horizon),
		ExplosionBasis: run.ExplosionBasis.String(),
		PartCount:      run.PartCount,
		RecordCount:    run.RecordCount,
	}
}
