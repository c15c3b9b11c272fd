package repository

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/BruksfildServices01/careline-api/internal/models"
)

var now = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

// newTestDB opens a migrated SQLite file. One connection serializes
// writers the way a row lock would.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "careline.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.Patient{},
		&models.Specialty{},
		&models.Doctor{},
		&models.Appointment{},
		&models.Ticket{},
		&models.TicketSequence{},
		&models.Chat{},
		&models.Message{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fixture struct {
	t       *testing.T
	db      *gorm.DB
	patient *models.Patient
	doctor  *models.Doctor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	p := &models.Patient{Name: "Ana", WalletAddress: "0xana"}
	d := &models.Doctor{Name: "Dr. Lima", LicenseID: "CRM-1", WalletAddress: "0xlima"}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("seed patient: %v", err)
	}
	if err := db.Create(d).Error; err != nil {
		t.Fatalf("seed doctor: %v", err)
	}
	return &fixture{t: t, db: db, patient: p, doctor: d}
}

func (f *fixture) appointment(date time.Time) *models.Appointment {
	f.t.Helper()
	ap := &models.Appointment{
		PatientID:      f.patient.ID,
		DoctorID:       f.doctor.ID,
		Date:           date,
		AppointmentFee: 50,
		AmountPaid:     50,
		Status:         "scheduled",
		IsActive:       true,
	}
	if err := f.db.Omit(clause.Associations).Create(ap).Error; err != nil {
		f.t.Fatalf("seed appointment: %v", err)
	}
	return ap
}

func (f *fixture) ticket(ap *models.Appointment, number, status string, expiresAt time.Time) *models.Ticket {
	f.t.Helper()
	tk := &models.Ticket{
		TicketNumber:  number,
		AppointmentID: ap.ID,
		Status:        status,
		ExpiresAt:     expiresAt,
	}
	if err := f.db.Omit(clause.Associations).Create(tk).Error; err != nil {
		f.t.Fatalf("seed ticket: %v", err)
	}
	return tk
}

func (f *fixture) status(ticketID string) string {
	f.t.Helper()
	var tk models.Ticket
	if err := f.db.First(&tk, "id = ?", ticketID).Error; err != nil {
		f.t.Fatalf("load ticket: %v", err)
	}
	return tk.Status
}
