package mongo

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AtheosYThomas/north-lions-v6/internal/domain"
)

// Monetary amounts are decimal.Decimal in the domain and Decimal128 at
// rest; conversion stays explicit at the repository boundary.

func toDecimal128(d decimal.Decimal) (primitive.Decimal128, error) {
	out, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.Decimal128{}, fmt.Errorf("encode decimal %q: %w", d.String(), err)
	}
	return out, nil
}

func fromDecimal128(d primitive.Decimal128) (decimal.Decimal, error) {
	out, err := decimal.NewFromString(d.String())
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decode decimal %q: %w", d.String(), err)
	}
	return out, nil
}

// --- members ---

type memberDoc struct {
	ID           string             `bson:"_id"`
	Name         string             `bson:"name"`
	Contact      memberContactDoc   `bson:"contact"`
	Organization memberOrgDoc       `bson:"organization"`
	Personal     memberPersonalDoc  `bson:"personal"`
	Company      memberCompanyDoc   `bson:"company"`
	Emergency    memberEmergencyDoc `bson:"emergency"`
	Status       memberStatusDoc    `bson:"status"`
	System       memberSystemDoc    `bson:"system"`
	Stats        memberStatsDoc     `bson:"stats"`
}

type memberContactDoc struct {
	Mobile     string `bson:"mobile"`
	Email      string `bson:"email"`
	LineUserID string `bson:"lineUserId"`
}

type memberOrgDoc struct {
	Role  string `bson:"role"`
	Title string `bson:"title"`
}

type memberPersonalDoc struct {
	JoinDate    *time.Time `bson:"joinDate,omitempty"`
	BirthDate   *time.Time `bson:"birthDate,omitempty"`
	BloodType   string     `bson:"bloodType,omitempty"`
	Gender      string     `bson:"gender,omitempty"`
	EnglishName string     `bson:"englishName,omitempty"`
}

type memberCompanyDoc struct {
	Name  string `bson:"name"`
	TaxID string `bson:"taxId"`
}

type memberEmergencyDoc struct {
	ContactName  string `bson:"contactName"`
	Relationship string `bson:"relationship"`
	Phone        string `bson:"phone"`
}

type memberStatusDoc struct {
	ActiveStatus   string `bson:"activeStatus"`
	MembershipType string `bson:"membershipType"`
}

type memberSystemDoc struct {
	Account       string `bson:"account,omitempty"`
	Role          string `bson:"role"`
	AccountStatus string `bson:"accountStatus,omitempty"`
	PushConsent   bool   `bson:"pushConsent"`
}

type memberStatsDoc struct {
	TotalDonation    primitive.Decimal128 `bson:"totalDonation"`
	DonationCount    int                  `bson:"donationCount"`
	LastDonationDate *time.Time           `bson:"lastDonationDate,omitempty"`
	LastInteraction  *time.Time           `bson:"lastInteraction,omitempty"`
}

func memberToDoc(m domain.Member) (memberDoc, error) {
	total, err := toDecimal128(m.Stats.TotalDonation)
	if err != nil {
		return memberDoc{}, err
	}
	return memberDoc{
		ID:   m.ID,
		Name: m.Name,
		Contact: memberContactDoc{
			Mobile:     m.Contact.Mobile,
			Email:      m.Contact.Email,
			LineUserID: m.Contact.LineUserID,
		},
		Organization: memberOrgDoc{Role: m.Organization.Role, Title: m.Organization.Title},
		Personal: memberPersonalDoc{
			JoinDate:    m.Personal.JoinDate,
			BirthDate:   m.Personal.BirthDate,
			BloodType:   m.Personal.BloodType,
			Gender:      m.Personal.Gender,
			EnglishName: m.Personal.EnglishName,
		},
		Company: memberCompanyDoc{Name: m.Company.Name, TaxID: m.Company.TaxID},
		Emergency: memberEmergencyDoc{
			ContactName:  m.Emergency.ContactName,
			Relationship: m.Emergency.Relationship,
			Phone:        m.Emergency.Phone,
		},
		Status: memberStatusDoc{
			ActiveStatus:   string(m.Status.ActiveStatus),
			MembershipType: string(m.Status.MembershipType),
		},
		System: memberSystemDoc{
			Account:       m.System.Account,
			Role:          string(m.System.Role),
			AccountStatus: m.System.AccountStatus,
			PushConsent:   m.System.PushConsent,
		},
		Stats: memberStatsDoc{
			TotalDonation:    total,
			DonationCount:    m.Stats.DonationCount,
			LastDonationDate: m.Stats.LastDonationDate,
			LastInteraction:  m.Stats.LastInteraction,
		},
	}, nil
}

func memberFromDoc(d memberDoc) (domain.Member, error) {
	total, err := fromDecimal128(d.Stats.TotalDonation)
	if err != nil {
		return domain.Member{}, err
	}
	return domain.Member{
		ID:   d.ID,
		Name: d.Name,
		Contact: domain.MemberContact{
			Mobile:     d.Contact.Mobile,
			Email:      d.Contact.Email,
			LineUserID: d.Contact.LineUserID,
		},
		Organization: domain.MemberOrganization{Role: d.Organization.Role, Title: d.Organization.Title},
		Personal: domain.MemberPersonal{
			JoinDate:    d.Personal.JoinDate,
			BirthDate:   d.Personal.BirthDate,
			BloodType:   d.Personal.BloodType,
			Gender:      d.Personal.Gender,
			EnglishName: d.Personal.EnglishName,
		},
		Company: domain.MemberCompany{Name: d.Company.Name, TaxID: d.Company.TaxID},
		Emergency: domain.MemberEmergency{
			ContactName:  d.Emergency.ContactName,
			Relationship: d.Emergency.Relationship,
			Phone:        d.Emergency.Phone,
		},
		Status: domain.MemberStatus{
			ActiveStatus:   domain.ActiveStatus(d.Status.ActiveStatus),
			MembershipType: domain.MembershipType(d.Status.MembershipType),
		},
		System: domain.MemberSystem{
			Account:       d.System.Account,
			Role:          domain.MemberRole(d.System.Role),
			AccountStatus: d.System.AccountStatus,
			PushConsent:   d.System.PushConsent,
		},
		Stats: domain.MemberStats{
			TotalDonation:    total,
			DonationCount:    d.Stats.DonationCount,
			LastDonationDate: d.Stats.LastDonationDate,
			LastInteraction:  d.Stats.LastInteraction,
		},
	}, nil
}

// --- events ---

type eventDoc struct {
	ID         string             `bson:"_id"`
	Name       string             `bson:"name"`
	Category   string             `bson:"category"`
	Time       eventTimeDoc       `bson:"time"`
	Details    eventDetailsDoc    `bson:"details"`
	Status     eventStatusDoc     `bson:"status"`
	Publishing eventPublishingDoc `bson:"publishing"`
	Stats      eventStatsDoc      `bson:"stats"`
	System     eventSystemDoc     `bson:"system"`
	Related    eventRelatedDoc    `bson:"related"`
}

type eventTimeDoc struct {
	Date     time.Time `bson:"date"`
	Start    time.Time `bson:"start"`
	End      time.Time `bson:"end"`
	Deadline time.Time `bson:"deadline"`
}

type eventDetailsDoc struct {
	Location    string               `bson:"location"`
	Cost        primitive.Decimal128 `bson:"cost"`
	Quota       int                  `bson:"quota"`
	IsPaidEvent bool                 `bson:"isPaidEvent"`
}

type eventStatusDoc struct {
	EventStatus        string `bson:"eventStatus"`
	RegistrationStatus string `bson:"registrationStatus"`
	PushStatus         string `bson:"pushStatus"`
}

type eventPublishingDoc struct {
	Target      []string `bson:"target"`
	PublisherID string   `bson:"publisherId"`
	Content     string   `bson:"content"`
}

type eventStatsDoc struct {
	RegisteredCount int `bson:"registeredCount"`
}

type eventSystemDoc struct {
	Code       string `bson:"code"`
	CoverImage string `bson:"coverImage,omitempty"`
}

type eventRelatedDoc struct {
	AnnouncementID string `bson:"announcementId,omitempty"`
}

func eventToDoc(e domain.Event) (eventDoc, error) {
	cost, err := toDecimal128(e.Details.Cost)
	if err != nil {
		return eventDoc{}, err
	}
	return eventDoc{
		ID:       e.ID,
		Name:     e.Name,
		Category: string(e.Category),
		Time: eventTimeDoc{
			Date:     e.Time.Date,
			Start:    e.Time.Start,
			End:      e.Time.End,
			Deadline: e.Time.Deadline,
		},
		Details: eventDetailsDoc{
			Location:    e.Details.Location,
			Cost:        cost,
			Quota:       e.Details.Quota,
			IsPaidEvent: e.Details.IsPaidEvent,
		},
		Status: eventStatusDoc{
			EventStatus:        e.Status.EventStatus,
			RegistrationStatus: e.Status.RegistrationStatus,
			PushStatus:         e.Status.PushStatus,
		},
		Publishing: eventPublishingDoc{
			Target:      e.Publishing.Target,
			PublisherID: e.Publishing.PublisherID,
			Content:     e.Publishing.Content,
		},
		Stats:   eventStatsDoc{RegisteredCount: e.Stats.RegisteredCount},
		System:  eventSystemDoc{Code: e.System.Code, CoverImage: e.System.CoverImage},
		Related: eventRelatedDoc{AnnouncementID: e.Related.AnnouncementID},
	}, nil
}

func eventFromDoc(d eventDoc) (domain.Event, error) {
	cost, err := fromDecimal128(d.Details.Cost)
	if err != nil {
		return domain.Event{}, err
	}
	return domain.Event{
		ID:       d.ID,
		Name:     d.Name,
		Category: domain.EventCategory(d.Category),
		Time: domain.EventTime{
			Date:     d.Time.Date,
			Start:    d.Time.Start,
			End:      d.Time.End,
			Deadline: d.Time.Deadline,
		},
		Details: domain.EventDetails{
			Location:    d.Details.Location,
			Cost:        cost,
			Quota:       d.Details.Quota,
			IsPaidEvent: d.Details.IsPaidEvent,
		},
		Status: domain.EventStatus{
			EventStatus:        d.Status.EventStatus,
			RegistrationStatus: d.Status.RegistrationStatus,
			PushStatus:         d.Status.PushStatus,
		},
		Publishing: domain.EventPublishing{
			Target:      d.Publishing.Target,
			PublisherID: d.Publishing.PublisherID,
			Content:     d.Publishing.Content,
		},
		Stats:   domain.EventStats{RegisteredCount: d.Stats.RegisteredCount},
		System:  domain.EventSystem{Code: d.System.Code, CoverImage: d.System.CoverImage},
		Related: domain.EventRelated{AnnouncementID: d.Related.AnnouncementID},
	}, nil
}

// --- registrations ---

type registrationDoc struct {
	ID           string             `bson:"_id"`
	Info         regInfoDoc         `bson:"info"`
	Details      regDetailsDoc      `bson:"details"`
	Needs        regNeedsDoc        `bson:"needs"`
	Status       regStatusDoc       `bson:"status"`
	Notification regNotificationDoc `bson:"notification"`
}

type regInfoDoc struct {
	MemberID  string    `bson:"memberId"`
	EventID   string    `bson:"eventId"`
	Timestamp time.Time `bson:"timestamp"`
}

type regDetailsDoc struct {
	AdultCount  int      `bson:"adultCount"`
	ChildCount  int      `bson:"childCount"`
	FamilyNames []string `bson:"familyNames"`
}

type regNeedsDoc struct {
	Shuttle       bool   `bson:"shuttle"`
	Accommodation bool   `bson:"accommodation"`
	Remark        string `bson:"remark"`
}

type regStatusDoc struct {
	Status        string `bson:"status"`
	PaymentStatus string `bson:"paymentStatus"`
}

type regNotificationDoc struct {
	IsSent bool `bson:"isSent"`
}

func registrationToDoc(r domain.Registration) registrationDoc {
	return registrationDoc{
		ID: r.ID,
		Info: regInfoDoc{
			MemberID:  r.Info.MemberID,
			EventID:   r.Info.EventID,
			Timestamp: r.Info.Timestamp,
		},
		Details: regDetailsDoc{
			AdultCount:  r.Details.AdultCount,
			ChildCount:  r.Details.ChildCount,
			FamilyNames: r.Details.FamilyNames,
		},
		Needs: regNeedsDoc{
			Shuttle:       r.Needs.Shuttle,
			Accommodation: r.Needs.Accommodation,
			Remark:        r.Needs.Remark,
		},
		Status: regStatusDoc{
			Status:        string(r.Status.Status),
			PaymentStatus: string(r.Status.PaymentStatus),
		},
		Notification: regNotificationDoc{IsSent: r.Notification.IsSent},
	}
}

func registrationFromDoc(d registrationDoc) domain.Registration {
	return domain.Registration{
		ID: d.ID,
		Info: domain.RegistrationInfo{
			MemberID:  d.Info.MemberID,
			EventID:   d.Info.EventID,
			Timestamp: d.Info.Timestamp,
		},
		Details: domain.RegistrationDetails{
			AdultCount:  d.Details.AdultCount,
			ChildCount:  d.Details.ChildCount,
			FamilyNames: d.Details.FamilyNames,
		},
		Needs: domain.RegistrationNeeds{
			Shuttle:       d.Needs.Shuttle,
			Accommodation: d.Needs.Accommodation,
			Remark:        d.Needs.Remark,
		},
		Status: domain.RegistrationState{
			Status:        domain.RegistrationStatus(d.Status.Status),
			PaymentStatus: domain.PaymentStatus(d.Status.PaymentStatus),
		},
		Notification: domain.RegistrationNotification{IsSent: d.Notification.IsSent},
	}
}

// --- donations ---

type donationDoc struct {
	ID        string               `bson:"_id"`
	MemberID  string               `bson:"memberId"`
	DonorName string               `bson:"donorName"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Category  string               `bson:"category"`
	Date      time.Time            `bson:"date"`
	Payment   donationPaymentDoc   `bson:"payment"`
	Audit     donationAuditDoc     `bson:"audit"`
	Receipt   donationReceiptDoc   `bson:"receipt"`
}

type donationPaymentDoc struct {
	Method       string `bson:"method"`
	AccountLast5 string `bson:"accountLast5,omitempty"`
}

type donationAuditDoc struct {
	Status  string `bson:"status"`
	Auditor string `bson:"auditor,omitempty"`
}

type donationReceiptDoc struct {
	IsRequired     bool   `bson:"isRequired"`
	Status         string `bson:"status"`
	DeliveryMethod string `bson:"deliveryMethod,omitempty"`
}

func donationToDoc(d domain.Donation) (donationDoc, error) {
	amount, err := toDecimal128(d.Amount)
	if err != nil {
		return donationDoc{}, err
	}
	return donationDoc{
		ID:        d.ID,
		MemberID:  d.MemberID,
		DonorName: d.DonorName,
		Amount:    amount,
		Category:  d.Category,
		Date:      d.Date,
		Payment:   donationPaymentDoc{Method: d.Payment.Method, AccountLast5: d.Payment.AccountLast5},
		Audit:     donationAuditDoc{Status: string(d.Audit.Status), Auditor: d.Audit.Auditor},
		Receipt: donationReceiptDoc{
			IsRequired:     d.Receipt.IsRequired,
			Status:         d.Receipt.Status,
			DeliveryMethod: d.Receipt.DeliveryMethod,
		},
	}, nil
}

func donationFromDoc(d donationDoc) (domain.Donation, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return domain.Donation{}, err
	}
	return domain.Donation{
		ID:        d.ID,
		MemberID:  d.MemberID,
		DonorName: d.DonorName,
		Amount:    amount,
		Category:  d.Category,
		Date:      d.Date,
		Payment:   domain.DonationPayment{Method: d.Payment.Method, AccountLast5: d.Payment.AccountLast5},
		Audit:     domain.DonationAudit{Status: domain.AuditStatus(d.Audit.Status), Auditor: d.Audit.Auditor},
		Receipt: domain.DonationReceipt{
			IsRequired:     d.Receipt.IsRequired,
			Status:         d.Receipt.Status,
			DeliveryMethod: d.Receipt.DeliveryMethod,
		},
	}, nil
}

// --- payments ---

type paymentDoc struct {
	ID        string               `bson:"_id"`
	PayerName string               `bson:"payerName"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Date      time.Time            `bson:"date"`
	Method    paymentMethodDoc     `bson:"method"`
	Audit     paymentAuditDoc      `bson:"audit"`
	Receipt   paymentReceiptDoc    `bson:"receipt"`
	Related   paymentRelatedDoc    `bson:"related"`
	System    paymentSystemDoc     `bson:"system"`
}

type paymentMethodDoc struct {
	Type         string `bson:"type"`
	AccountLast5 string `bson:"accountLast5,omitempty"`
}

type paymentAuditDoc struct {
	IsConfirmed bool   `bson:"isConfirmed"`
	Auditor     string `bson:"auditor,omitempty"`
}

type paymentReceiptDoc struct {
	IsRequired bool   `bson:"isRequired"`
	Title      string `bson:"title,omitempty"`
	TaxID      string `bson:"taxId,omitempty"`
}

type paymentRelatedDoc struct {
	EventID        string `bson:"eventId,omitempty"`
	RegistrationID string `bson:"registrationId,omitempty"`
	MemberID       string `bson:"memberId"`
}

type paymentSystemDoc struct {
	LineUID   string `bson:"lineUid,omitempty"`
	EventCode string `bson:"eventCode,omitempty"`
	EventName string `bson:"eventName,omitempty"`
}

func paymentToDoc(p domain.Payment) (paymentDoc, error) {
	amount, err := toDecimal128(p.Amount)
	if err != nil {
		return paymentDoc{}, err
	}
	return paymentDoc{
		ID:        p.ID,
		PayerName: p.PayerName,
		Amount:    amount,
		Date:      p.Date,
		Method:    paymentMethodDoc{Type: p.Method.Type, AccountLast5: p.Method.AccountLast5},
		Audit:     paymentAuditDoc{IsConfirmed: p.Audit.IsConfirmed, Auditor: p.Audit.Auditor},
		Receipt:   paymentReceiptDoc{IsRequired: p.Receipt.IsRequired, Title: p.Receipt.Title, TaxID: p.Receipt.TaxID},
		Related: paymentRelatedDoc{
			EventID:        p.Related.EventID,
			RegistrationID: p.Related.RegistrationID,
			MemberID:       p.Related.MemberID,
		},
		System: paymentSystemDoc{
			LineUID:   p.System.LineUID,
			EventCode: p.System.EventCode,
			EventName: p.System.EventName,
		},
	}, nil
}

func paymentFromDoc(d paymentDoc) (domain.Payment, error) {
	amount, err := fromDecimal128(d.Amount)
	if err != nil {
		return domain.Payment{}, err
	}
	return domain.Payment{
		ID:        d.ID,
		PayerName: d.PayerName,
		Amount:    amount,
		Date:      d.Date,
		Method:    domain.PaymentMethod{Type: d.Method.Type, AccountLast5: d.Method.AccountLast5},
		Audit:     domain.PaymentAudit{IsConfirmed: d.Audit.IsConfirmed, Auditor: d.Audit.Auditor},
		Receipt:   domain.PaymentReceipt{IsRequired: d.Receipt.IsRequired, Title: d.Receipt.Title, TaxID: d.Receipt.TaxID},
		Related: domain.PaymentRelated{
			EventID:        d.Related.EventID,
			RegistrationID: d.Related.RegistrationID,
			MemberID:       d.Related.MemberID,
		},
		System: domain.PaymentSystem{
			LineUID:   d.System.LineUID,
			EventCode: d.System.EventCode,
			EventName: d.System.EventName,
		},
	}, nil
}

// --- announcements ---

type announcementDoc struct {
	ID         string           `bson:"_id"`
	Title      string           `bson:"title"`
	Category   string           `bson:"category"`
	Content    annContentDoc    `bson:"content"`
	Publishing annPublishingDoc `bson:"publishing"`
	Status     annStatusDoc     `bson:"status"`
	Settings   annSettingsDoc   `bson:"settings"`
	Related    annRelatedDoc    `bson:"related"`
}

type annContentDoc struct {
	Date    time.Time `bson:"date"`
	Body    string    `bson:"body"`
	Summary string    `bson:"summary"`
}

type annPublishingDoc struct {
	TargetAudience []string  `bson:"targetAudience"`
	PublisherID    string    `bson:"publisherId"`
	PublishTime    time.Time `bson:"publishTime"`
}

type annStatusDoc struct {
	Status     string `bson:"status"`
	PushStatus string `bson:"pushStatus,omitempty"`
}

type annSettingsDoc struct {
	IsPushEnabled  bool   `bson:"isPushEnabled"`
	IsPinned       bool   `bson:"isPinned"`
	DeliveryMethod string `bson:"deliveryMethod,omitempty"`
	ReplySetting   string `bson:"replySetting,omitempty"`
}

type annRelatedDoc struct {
	EventID       string `bson:"eventId,omitempty"`
	PushMessageID string `bson:"pushMessageId,omitempty"`
}

func announcementToDoc(a domain.Announcement) announcementDoc {
	return announcementDoc{
		ID:       a.ID,
		Title:    a.Title,
		Category: string(a.Category),
		Content:  annContentDoc{Date: a.Content.Date, Body: a.Content.Body, Summary: a.Content.Summary},
		Publishing: annPublishingDoc{
			TargetAudience: a.Publishing.TargetAudience,
			PublisherID:    a.Publishing.PublisherID,
			PublishTime:    a.Publishing.PublishTime,
		},
		Status: annStatusDoc{Status: string(a.Status.Status), PushStatus: a.Status.PushStatus},
		Settings: annSettingsDoc{
			IsPushEnabled:  a.Settings.IsPushEnabled,
			IsPinned:       a.Settings.IsPinned,
			DeliveryMethod: a.Settings.DeliveryMethod,
			ReplySetting:   a.Settings.ReplySetting,
		},
		Related: annRelatedDoc{EventID: a.Related.EventID, PushMessageID: a.Related.PushMessageID},
	}
}

func announcementFromDoc(d announcementDoc) domain.Announcement {
	return domain.Announcement{
		ID:       d.ID,
		Title:    d.Title,
		Category: domain.AnnouncementCategory(d.Category),
		Content:  domain.AnnouncementContent{Date: d.Content.Date, Body: d.Content.Body, Summary: d.Content.Summary},
		Publishing: domain.AnnouncementPublishing{
			TargetAudience: d.Publishing.TargetAudience,
			PublisherID:    d.Publishing.PublisherID,
			PublishTime:    d.Publishing.PublishTime,
		},
		Status: domain.AnnouncementState{Status: domain.AnnouncementStatus(d.Status.Status), PushStatus: d.Status.PushStatus},
		Settings: domain.AnnouncementSettings{
			IsPushEnabled:  d.Settings.IsPushEnabled,
			IsPinned:       d.Settings.IsPinned,
			DeliveryMethod: d.Settings.DeliveryMethod,
			ReplySetting:   d.Settings.ReplySetting,
		},
		Related: domain.AnnouncementRelated{EventID: d.Related.EventID, PushMessageID: d.Related.PushMessageID},
	}
}

// --- message logs ---

type messageLogDoc struct {
	ID         string    `bson:"_id"`
	LineUserID string    `bson:"lineUserId"`
	Content    string    `bson:"content"`
	Timestamp  time.Time `bson:"timestamp"`
	Category   string    `bson:"category"`
	Status     string    `bson:"status"`
	MemberName string    `bson:"memberName,omitempty"`
}

func messageLogToDoc(m domain.MessageLog) messageLogDoc {
	return messageLogDoc{
		ID:         m.ID,
		LineUserID: m.LineUserID,
		Content:    m.Content,
		Timestamp:  m.Timestamp,
		Category:   string(m.Category),
		Status:     string(m.Status),
		MemberName: m.MemberName,
	}
}

func messageLogFromDoc(d messageLogDoc) domain.MessageLog {
	return domain.MessageLog{
		ID:         d.ID,
		LineUserID: d.LineUserID,
		Content:    d.Content,
		Timestamp:  d.Timestamp,
		Category:   domain.MessageCategory(d.Category),
		Status:     domain.MessageState(d.Status),
		MemberName: d.MemberName,
	}
}
