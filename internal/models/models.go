package models

import (
	"time"
)

// Status flags follow the legacy schema: "Y" active, "N" inactive/cancelled.
const (
	StatusActive   = "Y"
	StatusInactive = "N"
)

// Permission types gating employee mutations.
const (
	PermissionMoiInsert      = "MOI_INSERT"
	PermissionFunctionCreate = "FUNCTION_CREATE"
)

// Ledger entry types and modes.
const (
	EntryTypeInvest = "INVEST"
	EntryTypeReturn = "RETURN"

	EntryModeMoney = "MONEY"
	EntryModeThing = "THING"
)

type User struct {
	ID                int64      `gorm:"column:um_id;primaryKey;autoIncrement"  json:"id"`
	FullName          string     `gorm:"column:um_full_name;not null"           json:"name"`
	Email             string     `gorm:"column:um_email;unique;not null"        json:"email"`
	Mobile            string     `gorm:"column:um_mobile;unique;not null"       json:"mobile"`
	PasswordHash      string     `gorm:"column:um_password;not null"            json:"-"`
	Status            string     `gorm:"column:um_status;default:Y"             json:"status"`
	IsAdmin           bool       `gorm:"column:um_is_admin;default:false"       json:"isAdmin"`
	NotificationToken *string    `gorm:"column:um_notification_token"           json:"-"`
	LastLogin         *time.Time `gorm:"column:um_last_login"                   json:"last_login"`
	PasswordChangedAt *time.Time `gorm:"column:um_password_changed_at"          json:"-"`
	CreatedAt         time.Time  `gorm:"column:um_create_dt"                    json:"-"`
	UpdatedAt         time.Time  `gorm:"column:um_update_dt"                    json:"-"`
}

func (User) TableName() string { return "gp_moi_user_master" }

type Employee struct {
	ID           int64     `gorm:"column:em_id;primaryKey;autoIncrement" json:"em_id"`
	FullName     string    `gorm:"column:em_full_name;not null"          json:"em_full_name"`
	Email        string    `gorm:"column:em_email;unique;not null"       json:"em_email"`
	Mobile       string    `gorm:"column:em_mobile;unique;not null"      json:"em_mobile"`
	PasswordHash string    `gorm:"column:em_password;not null"           json:"-"`
	Status       string    `gorm:"column:em_status;default:Y"            json:"em_status"`
	CreatedBy    int64     `gorm:"column:em_created_by"                  json:"em_created_by"`
	CreatedAt    time.Time `gorm:"column:em_create_dt"                   json:"em_create_dt"`
	UpdatedAt    time.Time `gorm:"column:em_update_dt"                   json:"em_update_dt"`
}

func (Employee) TableName() string { return "gp_moi_employee_master" }

type AdminAccount struct {
	ID       int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Username string `gorm:"column:username;unique;not null"    json:"username"`
	Password string `gorm:"column:password;not null"           json:"-"`
	Active   string `gorm:"column:active;default:Y"            json:"active"`
}

func (AdminAccount) TableName() string { return "gp_moi_admin_master" }

// PermissionGrant rows are append-only: cancellation flips Status to "N" and
// stamps the audit columns, it never deletes or reactivates a row.
type PermissionGrant struct {
	ID             int64      `gorm:"column:ep_id;primaryKey;autoIncrement" json:"ep_id"`
	EmployeeID     int64      `gorm:"column:ep_em_id;index;not null"        json:"ep_em_id"`
	FunctionID     *int64     `gorm:"column:ep_function_id"                 json:"ep_function_id"`
	PermissionType string     `gorm:"column:ep_permission_type;not null"    json:"ep_permission_type"`
	AssignedBy     int64      `gorm:"column:ep_assigned_by"                 json:"ep_assigned_by"`
	AssignedAt     time.Time  `gorm:"column:ep_assigned_dt;autoCreateTime"  json:"ep_assigned_dt"`
	Status         string     `gorm:"column:ep_status;default:Y"            json:"ep_status"`
	CancelledAt    *time.Time `gorm:"column:ep_cancelled_dt"                json:"ep_cancelled_dt"`
	CancelledBy    *int64     `gorm:"column:ep_cancelled_by"                json:"ep_cancelled_by"`
}

func (PermissionGrant) TableName() string { return "gp_moi_employee_permissions" }

type Function struct {
	ID              int64     `gorm:"column:f_id;primaryKey;autoIncrement" json:"id"`
	UserID          int64     `gorm:"column:f_um_id;index;not null"        json:"userId"`
	Name            string    `gorm:"column:function_name;not null"        json:"functionName"`
	Date            time.Time `gorm:"column:function_date"                 json:"functionDate"`
	FirstName       string    `gorm:"column:first_name"                    json:"firstName"`
	SecondName      string    `gorm:"column:second_name"                   json:"secondName"`
	Place           string    `gorm:"column:place"                         json:"place"`
	NativePlace     string    `gorm:"column:native_place"                  json:"nativePlace"`
	InvitationPhoto string    `gorm:"column:invitation_photo"              json:"invitationUrl"`
	Active          string    `gorm:"column:f_active;default:Y"            json:"-"`
	CreatedAt       time.Time `gorm:"column:f_create_dt"                   json:"-"`
}

func (Function) TableName() string { return "gp_moi_functions" }

type MoiRecord struct {
	ID         int64     `gorm:"column:mr_id;primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"column:mr_um_id;index;not null"        json:"userId"`
	FunctionID int64     `gorm:"column:mr_function_id"                 json:"functionId"`
	City       string    `gorm:"column:mr_city_id"                     json:"cityName"`
	FirstName  string    `gorm:"column:mr_first_name"                  json:"firstName"`
	SecondName string    `gorm:"column:mr_second_name"                 json:"secondName"`
	Amount     float64   `gorm:"column:mr_amount"                      json:"amount"`
	Occupation string    `gorm:"column:mr_occupation"                  json:"occupation"`
	Remarks    string    `gorm:"column:mr_remarks"                     json:"remarks"`
	Seimurai   *string   `gorm:"column:seimurai"                       json:"seimurai"`
	Things     *string   `gorm:"column:things"                         json:"things"`
	Active     string    `gorm:"column:mr_active;default:Y"            json:"-"`
	CreatedAt  time.Time `gorm:"column:mr_create_dt"                   json:"-"`
}

func (MoiRecord) TableName() string { return "gp_moi_master_records" }

type MoiOutRecord struct {
	ID           int64     `gorm:"column:mom_id;primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"column:mom_user_id;index;not null"      json:"userId"`
	FirstName    string    `gorm:"column:mom_first_name"                  json:"firstName"`
	SecondName   string    `gorm:"column:mom_second_name"                 json:"secondName"`
	City         string    `gorm:"column:mom_city"                        json:"city"`
	FunctionDate time.Time `gorm:"column:mom_function_date"               json:"functionDate"`
	FunctionName string    `gorm:"column:mom_function_name"               json:"functionName"`
	Amount       float64   `gorm:"column:mom_amount"                      json:"amount"`
	Remarks      string    `gorm:"column:mom_remarks"                     json:"remarks"`
	Seimurai     *string   `gorm:"column:seimurai"                        json:"seimurai"`
	Things       *string   `gorm:"column:things"                         json:"things"`
	Status       string    `gorm:"column:mom_status;default:Y"            json:"-"`
	CreatedAt    time.Time `gorm:"column:mom_create_dt"                   json:"-"`
}

func (MoiOutRecord) TableName() string { return "gp_moi_out_master" }

type Person struct {
	ID         int64     `gorm:"column:mp_id;primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"column:mp_um_id;index;not null"        json:"userId"`
	FirstName  string    `gorm:"column:mp_first_name;not null"         json:"firstName"`
	SecondName string    `gorm:"column:mp_second_name"                 json:"secondName"`
	Business   string    `gorm:"column:mp_business"                    json:"business"`
	City       string    `gorm:"column:mp_city"                        json:"city"`
	Mobile     string    `gorm:"column:mp_mobile"                      json:"mobile"`
	Active     string    `gorm:"column:mp_active;default:Y"            json:"-"`
	CreatedAt  time.Time `gorm:"column:mp_create_dt"                   json:"-"`
}

func (Person) TableName() string { return "gp_moi_persons" }

type LedgerEntry struct {
	ID         int64     `gorm:"column:mcd_id;primaryKey;autoIncrement" json:"id"`
	UserID     int64     `gorm:"column:mcd_um_id;index;not null"        json:"userId"`
	PersonID   int64     `gorm:"column:mcd_person_id;index"             json:"personId"`
	FirstName  *string   `gorm:"column:mcd_first_name"                  json:"firstName"`
	SecondName *string   `gorm:"column:mcd_second_name"                 json:"secondName"`
	City       *string   `gorm:"column:mcd_city"                        json:"city"`
	FunctionID int64     `gorm:"column:mcd_function_id"                 json:"functionId"`
	Type       string    `gorm:"column:mcd_type;not null"               json:"type"`
	Mode       string    `gorm:"column:mcd_mode;not null"               json:"mode"`
	Date       time.Time `gorm:"column:mcd_date"                        json:"date"`
	Amount     float64   `gorm:"column:mcd_amount;default:0"            json:"amount"`
	Remarks    *string   `gorm:"column:mcd_remarks"                     json:"remarks"`
	Active     string    `gorm:"column:mcd_active;default:Y"            json:"-"`
	CreatedAt  time.Time `gorm:"column:mcd_create_dt"                   json:"-"`
}

func (LedgerEntry) TableName() string { return "gp_moi_credit_debit_master" }

// DefaultFunction rows with UserID 0 are global catalog entries.
type DefaultFunction struct {
	ID     int64  `gorm:"column:mdf_id;primaryKey;autoIncrement" json:"id"`
	UserID int64  `gorm:"column:mdf_um_id;default:0"             json:"userId"`
	Name   string `gorm:"column:mdf_name;not null"               json:"name"`
	Active string `gorm:"column:mdf_active;default:Y"            json:"-"`
}

func (DefaultFunction) TableName() string { return "gp_moi_default_functions" }

type PaymentMode struct {
	ID     int64  `gorm:"column:dp_id;primaryKey;autoIncrement" json:"id"`
	Mode   string `gorm:"column:dp_mode;not null"               json:"mode"`
	Active string `gorm:"column:dp_active;default:Y"            json:"-"`
}

func (PaymentMode) TableName() string { return "gp_moi_default_payment" }

type UpcomingFunction struct {
	ID            int64     `gorm:"column:uf_id;primaryKey;autoIncrement" json:"id"`
	UserID        int64     `gorm:"column:uf_user_id;index;not null"      json:"userId"`
	Date          time.Time `gorm:"column:uf_date"                        json:"date"`
	Name          string    `gorm:"column:uf_name"                        json:"functionName"`
	Place         string    `gorm:"column:uf_place"                       json:"place"`
	InvitationURL string    `gorm:"column:uf_invitation_url"              json:"invitationUrl"`
	Status        *string   `gorm:"column:status"                         json:"status"`
	CreatedAt     time.Time `gorm:"column:uf_create_dt"                   json:"-"`
}

func (UpcomingFunction) TableName() string { return "gp_moi_upcoming_functions" }

type Feedback struct {
	ID        int64     `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:user_id;index;not null"      json:"userId"`
	Feedbacks string    `gorm:"column:feedbacks;not null"          json:"feedbacks"`
	Reply     *string   `gorm:"column:reply"                       json:"reply"`
	CreatedAt time.Time `gorm:"column:created_time"                json:"createdTime"`
	UpdatedAt time.Time `gorm:"column:updated_time"                json:"updatedTime"`
}

func (Feedback) TableName() string { return "gp_moi_feedbacks" }

// Notification types accepted by the notification log.
const (
	NotificationMoi      = "moi"
	NotificationMoiOut   = "moiOut"
	NotificationFunction = "function"
	NotificationAccount  = "account"
	NotificationSettings = "settings"
	NotificationGeneral  = "general"
)

func IsValidNotificationType(t string) bool {
	switch t {
	case NotificationMoi, NotificationMoiOut, NotificationFunction,
		NotificationAccount, NotificationSettings, NotificationGeneral:
		return true
	}
	return false
}

type Notification struct {
	ID        int64     `gorm:"column:n_id;primaryKey;autoIncrement" json:"id"`
	UserID    int64     `gorm:"column:n_um_id;index;not null"        json:"userId"`
	Title     string    `gorm:"column:n_title;not null"              json:"title"`
	Body      string    `gorm:"column:n_body"                        json:"body"`
	Type      string    `gorm:"column:n_type;default:general"        json:"type"`
	Read      string    `gorm:"column:n_read;default:N"              json:"read"`
	Active    string    `gorm:"column:n_active;default:Y"            json:"-"`
	CreatedAt time.Time `gorm:"column:n_create_dt"                   json:"createdAt"`
}

func (Notification) TableName() string { return "gp_moi_notifications" }

// All lists every model for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{}, &Employee{}, &AdminAccount{}, &PermissionGrant{},
		&Function{}, &MoiRecord{}, &MoiOutRecord{}, &Person{},
		&LedgerEntry{}, &DefaultFunction{}, &PaymentMode{},
		&UpcomingFunction{}, &Feedback{}, &Notification{},
	}
}
