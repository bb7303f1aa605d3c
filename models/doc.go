// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, and domain types for the API.

# Request Types

Types for parsing incoming JSON:

  - ReportCheckInRequest: placeName, coordinates, statusTag
  - UpdateStatusRequest: statusTag
  - CreateEventRequest: title, description, category, date or poll
  - CreatePollRequest / CreatePollOption: kind, closesAt, options
  - CreateFeedbackRequest: title, description, category
  - AddCommentRequest: content

# Domain Types

CheckIn, Event, Poll, PollOption, Feedback, and FeedbackComment are the
wire shapes handlers return, with the owning User joined in. APIResponse
is the envelope every endpoint wraps them in.

# Coordinates

Coordinates is a lat/lon pair that may be absent (location permission
denied). The Located flag distinguishes the two cases in Go; on the wire
an absent pair is an explicit JSON null, and a present one is
{"lat": ..., "lon": ...}. Custom MarshalJSON/UnmarshalJSON keep the two
representations in lockstep so clients never see a zero-island pair.
*/
package models
