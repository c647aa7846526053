package service

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/wojo-o/inker-sub001/internal/domain"
	"github.com/wojo-o/inker-sub001/internal/storage"
)

// ─────────────────────────────────────────────────────────────
// Device Service — fleet registry and refresh flags
// ─────────────────────────────────────────────────────────────

// DeviceService manages the registered display fleet.
type DeviceService struct {
	store *storage.DeviceStore
}

func NewDeviceService(store *storage.DeviceStore) *DeviceService {
	return &DeviceService{store: store}
}

// RegisterDevice adds a display to the fleet.
func (s *DeviceService) RegisterDevice(name, mac, firmware string) (*domain.Device, error) {
	d := &domain.Device{
		ID:       uuid.NewString(),
		Name:     name,
		MAC:      mac,
		Firmware: firmware,
	}
	if err := s.store.CreateDevice(d); err != nil {
		return nil, fmt.Errorf("register device: %w", err)
	}
	return d, nil
}

func (s *DeviceService) GetDevice(id string) (*domain.Device, error) {
	return s.store.GetDevice(id)
}

func (s *DeviceService) ListDevices() ([]domain.Device, error) {
	return s.store.ListDevices()
}

// AssignDesign points a device at a design; an empty designID clears
// the assignment.
func (s *DeviceService) AssignDesign(deviceID, designID string) error {
	d, err := s.store.GetDevice(deviceID)
	if err != nil {
		return err
	}
	d.DesignID = designID
	d.RefreshPending = designID != ""
	return s.store.UpdateDevice(d)
}

// ReportState records the telemetry a device sends when it polls for
// its screen, and clears its refresh flag.
func (s *DeviceService) ReportState(deviceID string, battery, wifiDBm *int, firmware string) (*domain.Device, error) {
	d, err := s.store.GetDevice(deviceID)
	if err != nil {
		return nil, err
	}
	if battery != nil {
		d.Battery = battery
	}
	if wifiDBm != nil {
		d.WiFiDBm = wifiDBm
	}
	if firmware != "" {
		d.Firmware = firmware
	}
	d.RefreshPending = false
	d.LastSeenAt = time.Now()
	return d, s.store.UpdateDevice(d)
}

func (s *DeviceService) DeleteDevice(id string) error {
	return s.store.DeleteDevice(id)
}

// StoreNotifier implements Notifier over the device store.
type StoreNotifier struct {
	Devices *storage.DeviceStore
}

func (n *StoreNotifier) DesignChanged(designID string) (int, error) {
	return n.Devices.MarkRefreshPending(designID)
}
