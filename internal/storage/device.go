package storage

import (
	"time"

	"github.com/wojo-o/inker-sub001/internal/domain"
)

// DeviceStore persists the device fleet.
type DeviceStore struct {
	db *DB
}

func NewDeviceStore(db *DB) *DeviceStore {
	return &DeviceStore{db: db}
}

func (s *DeviceStore) CreateDevice(d *domain.Device) error {
	d.LastSeenAt = time.Now()
	_, err := s.db.Conn().Exec(
		`INSERT INTO devices (id, name, mac, design_id, firmware, battery, wifi_dbm, refresh_pending, last_seen_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.MAC, d.DesignID, d.Firmware, d.Battery, d.WiFiDBm, d.RefreshPending, d.LastSeenAt,
	)
	return err
}

func (s *DeviceStore) GetDevice(id string) (*domain.Device, error) {
	d := &domain.Device{}
	err := s.db.Conn().QueryRow(
		`SELECT id, name, mac, design_id, firmware, battery, wifi_dbm, refresh_pending, last_seen_at FROM devices WHERE id = ?`, id,
	).Scan(&d.ID, &d.Name, &d.MAC, &d.DesignID, &d.Firmware, &d.Battery, &d.WiFiDBm, &d.RefreshPending, &d.LastSeenAt)
	if err != nil {
		return nil, notFound("get device", err)
	}
	return d, nil
}

func (s *DeviceStore) ListDevices() ([]domain.Device, error) {
	return s.queryDevices(`SELECT id, name, mac, design_id, firmware, battery, wifi_dbm, refresh_pending, last_seen_at FROM devices ORDER BY name ASC`)
}

// ListRefreshPending returns devices flagged for a screen refresh.
func (s *DeviceStore) ListRefreshPending() ([]domain.Device, error) {
	return s.queryDevices(`SELECT id, name, mac, design_id, firmware, battery, wifi_dbm, refresh_pending, last_seen_at FROM devices WHERE refresh_pending = 1`)
}

func (s *DeviceStore) queryDevices(query string, args ...any) ([]domain.Device, error) {
	rows, err := s.db.Conn().Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var devices []domain.Device
	for rows.Next() {
		var d domain.Device
		if err := rows.Scan(&d.ID, &d.Name, &d.MAC, &d.DesignID, &d.Firmware, &d.Battery, &d.WiFiDBm, &d.RefreshPending, &d.LastSeenAt); err != nil {
			return nil, err
		}
		devices = append(devices, d)
	}
	return devices, rows.Err()
}

func (s *DeviceStore) UpdateDevice(d *domain.Device) error {
	_, err := s.db.Conn().Exec(
		`UPDATE devices SET name = ?, mac = ?, design_id = ?, firmware = ?, battery = ?, wifi_dbm = ?, refresh_pending = ?, last_seen_at = ? WHERE id = ?`,
		d.Name, d.MAC, d.DesignID, d.Firmware, d.Battery, d.WiFiDBm, d.RefreshPending, d.LastSeenAt, d.ID,
	)
	return err
}

func (s *DeviceStore) DeleteDevice(id string) error {
	_, err := s.db.Conn().Exec(`DELETE FROM devices WHERE id = ?`, id)
	return err
}

// MarkRefreshPending flags every device assigned to the design and
// returns the number of devices affected.
func (s *DeviceStore) MarkRefreshPending(designID string) (int, error) {
	res, err := s.db.Conn().Exec(`UPDATE devices SET refresh_pending = 1 WHERE design_id = ?`, designID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// ClearRefreshPending resets the flag after a device has been refreshed.
func (s *DeviceStore) ClearRefreshPending(deviceID string) error {
	_, err := s.db.Conn().Exec(`UPDATE devices SET refresh_pending = 0 WHERE id = ?`, deviceID)
	return err
}
