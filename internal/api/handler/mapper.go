package handler

import (
	"github.com/99minutos/tracking-system/internal/core/domain"
	"github.com/99minutos/tracking-system/internal/core/ports"
)

func toTrackingResponse(info *ports.AdvancedTrackingInfo) *trackingResponse {
	resp := &trackingResponse{
		TrackingNumber: info.TrackingNumber,
		Status: statusResponse{
			Code:        info.Status.Code,
			Description: info.Status.Description,
			Category:    string(info.Status.Category),
			Timestamp:   info.Status.Timestamp,
			Location:    info.Status.Location,
		},
		Type:            string(info.Type),
		Carrier:         info.Carrier,
		CarrierID:       string(info.CarrierID),
		ActualDelivery:  info.ActualDelivery,
		Timeline:        make([]timelineEntryResponse, 0, len(info.Timeline)),
		CurrentLocation: info.CurrentLocation,
		Customs:         info.Customs,
		Notifications:   info.Notifications,
		Degraded:        info.Degraded,
		Links: trackingLinks{
			Self:   "/v1/tracking/" + info.TrackingNumber,
			Report: "/v1/tracking/" + info.TrackingNumber + "/report",
		},
	}
	if resp.Notifications == nil {
		resp.Notifications = []domain.Notification{}
	}
	if !info.EstimatedDelivery.IsZero() {
		eta := info.EstimatedDelivery
		resp.EstimatedDelivery = &eta
	}
	if info.Sender.Name != "" {
		sender := info.Sender
		resp.Sender = &sender
	}
	if info.Recipient.Name != "" {
		recipient := info.Recipient
		resp.Recipient = &recipient
	}
	if info.Package.WeightKg > 0 {
		pkg := info.Package
		resp.Package = &pkg
	}
	if info.Insurance.Amount > 0 {
		ins := info.Insurance
		resp.Insurance = &ins
	}
	for _, e := range info.Timeline {
		resp.Timeline = append(resp.Timeline, timelineEntryResponse{
			Status:      e.Status,
			Description: e.Description,
			Timestamp:   e.Timestamp,
			Location:    e.Location,
			Coordinates: e.Coordinates,
		})
	}
	return resp
}

func toEventInput(req trackingEventRequest) ports.TrackingEventInput {
	in := ports.TrackingEventInput{
		TrackingNumber: req.TrackingNumber,
		EventID:        req.EventID,
		StatusCode:     req.Status,
		Description:    req.Description,
		Timestamp:      req.Timestamp,
		Location:       req.Location,
		Source:         req.Source,
	}
	if req.Coordinates != nil {
		in.Coordinates = &ports.LocationInput{Lat: req.Coordinates.Lat, Lng: req.Coordinates.Lng}
	}
	return in
}

func toAddress(a addressRequest) domain.AddressInfo {
	return domain.AddressInfo{
		Name:       a.Name,
		Company:    a.Company,
		Address:    a.Address,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
		Phone:      a.Phone,
		Email:      a.Email,
	}
}

func toPreferences(reqs []preferenceRequest) []domain.NotificationPreference {
	if reqs == nil {
		return nil
	}
	prefs := make([]domain.NotificationPreference, 0, len(reqs))
	for _, p := range reqs {
		prefs = append(prefs, domain.NotificationPreference{
			Channel: domain.Channel(p.Type),
			Enabled: p.Enabled,
			Events:  p.Events,
			Target:  p.Target,
		})
	}
	return prefs
}

func toRegisterInput(req registerShipmentRequest, idempotencyKey string) ports.RegisterShipmentInput {
	in := ports.RegisterShipmentInput{
		TrackingNumber: req.TrackingNumber,
		Scope:          domain.Scope(req.Type),
		Sender:         toAddress(req.Sender),
		Recipient:      toAddress(req.Recipient),
		Package: domain.Package{
			WeightKg: req.Package.WeightKg,
			Dimensions: domain.Dimensions{
				LengthCm: req.Package.Dimensions.LengthCm,
				WidthCm:  req.Package.Dimensions.WidthCm,
				HeightCm: req.Package.Dimensions.HeightCm,
			},
			ServiceLevel:      req.Package.ServiceLevel,
			SignatureRequired: req.Package.SignatureRequired,
			Instructions:      req.Package.Instructions,
		},
		Insurance: domain.InsuranceInfo{
			Amount:      req.Insurance.Amount,
			Currency:    req.Insurance.Currency,
			Type:        domain.InsuranceType(req.Insurance.Type),
			Description: req.Insurance.Description,
		},
		Preferences:    toPreferences(req.Notifications),
		IdempotencyKey: idempotencyKey,
	}
	if req.Customs != nil {
		in.Customs = &domain.CustomsInfo{
			DeclaredValue: req.Customs.DeclaredValue,
			Currency:      req.Customs.Currency,
			Contents:      req.Customs.Contents,
			Purpose:       req.Customs.Purpose,
			Documents:     req.Customs.Documents,
		}
	}
	return in
}

func toShipmentResponse(s *domain.ShipmentRecord) shipmentResponse {
	return shipmentResponse{
		ShipmentRecord: s,
		Links: shipmentLinks{
			Self:     "/v1/shipments/" + s.TrackingNumber,
			Tracking: "/v1/tracking/" + s.TrackingNumber,
		},
	}
}
