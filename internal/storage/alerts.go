package storage

func (r *Repository) CreateAlertConfig(config *AlertConfig) error {
	return r.db.Create(config).Error
}

func (r *Repository) UpdateAlertConfig(config *AlertConfig) error {
	return r.db.Save(config).Error
}

func (r *Repository) DeleteAlertConfig(config *AlertConfig) error {
	return r.db.Delete(config).Error
}

func (r *Repository) GetAlertConfig(configID, userID string) (*AlertConfig, error) {
	var config AlertConfig
	err := r.db.Where("id = ? AND user_id = ?", configID, userID).First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

func (r *Repository) ListAlertConfigs(userID string) ([]AlertConfig, error) {
	var configs []AlertConfig
	err := r.db.Where("user_id = ?", userID).Order("created_at ASC").Find(&configs).Error
	return configs, err
}

func (r *Repository) FindAlertConfig(userID, alertType, channel string) (*AlertConfig, error) {
	var config AlertConfig
	err := r.db.Where("user_id = ? AND alert_type = ? AND channel = ?", userID, alertType, channel).
		First(&config).Error
	if err != nil {
		return nil, err
	}
	return &config, nil
}

// ActiveSignalConfigs returns every active signal-type alert config, for
// matching against an incoming recommendation.
func (r *Repository) ActiveSignalConfigs() ([]AlertConfig, error) {
	var configs []AlertConfig
	err := r.db.Where("alert_type = ? AND is_active = ?", "signal", true).Find(&configs).Error
	return configs, err
}

func (r *Repository) SaveAlertRecord(record *AlertRecord) error {
	return r.db.Create(record).Error
}

func (r *Repository) ListAlertRecords(userID string, page, perPage int) ([]AlertRecord, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}
	var records []AlertRecord
	err := r.db.Where("user_id = ?", userID).
		Order("sent_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&records).Error
	return records, err
}
