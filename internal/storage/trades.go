package storage

func (r *Repository) CreateTrade(trade *Trade) error {
	return r.db.Create(trade).Error
}

func (r *Repository) UpdateTrade(trade *Trade) error {
	return r.db.Save(trade).Error
}

func (r *Repository) GetTradeForUser(tradeID, userID string) (*Trade, error) {
	var trade Trade
	err := r.db.Preload("Stock").
		Where("id = ? AND user_id = ?", tradeID, userID).
		First(&trade).Error
	if err != nil {
		return nil, err
	}
	return &trade, nil
}

func (r *Repository) ListTrades(userID, status string, page, perPage int) ([]Trade, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 50
	}

	q := r.db.Preload("Stock").Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var trades []Trade
	err := q.Order("created_at DESC").
		Offset((page - 1) * perPage).Limit(perPage).
		Find(&trades).Error
	return trades, err
}

// FilledTrades returns all filled trades for portfolio aggregation.
func (r *Repository) FilledTrades(userID string) ([]Trade, error) {
	var trades []Trade
	err := r.db.Preload("Stock").
		Where("user_id = ? AND status = ?", userID, TradeFilled).
		Order("executed_at ASC").
		Find(&trades).Error
	return trades, err
}

// Broker accounts

func (r *Repository) CreateBrokerAccount(account *BrokerAccount) error {
	return r.db.Create(account).Error
}

func (r *Repository) ListBrokerAccounts(userID string) ([]BrokerAccount, error) {
	var accounts []BrokerAccount
	err := r.db.Where("user_id = ?", userID).Find(&accounts).Error
	return accounts, err
}

func (r *Repository) GetBrokerAccount(accountID, userID string) (*BrokerAccount, error) {
	var account BrokerAccount
	err := r.db.Where("id = ? AND user_id = ?", accountID, userID).First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *Repository) GetDefaultBrokerAccount(userID string) (*BrokerAccount, error) {
	var account BrokerAccount
	err := r.db.Where("user_id = ? AND is_default = ? AND is_active = ?", userID, true, true).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ClearDefaultBrokerAccounts unsets is_default on all of a user's accounts
// before a new default is saved.
func (r *Repository) ClearDefaultBrokerAccounts(userID string) error {
	return r.db.Model(&BrokerAccount{}).
		Where("user_id = ?", userID).
		Update("is_default", false).Error
}
