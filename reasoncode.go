package mqtt5

import (
	"io"

	"github.com/axmq/mqtt5/internal/wirelog"
)

// ReasonCode is the one-byte outcome classifier carried by acknowledgement
// and AUTH/DISCONNECT packets. The legal set of values depends on which
// packet type carries it; see reasonCodeLegality.
type ReasonCode byte

const (
	ReasonSuccess                             ReasonCode = 0x00
	ReasonNormalDisconnection                 ReasonCode = 0x00
	ReasonGrantedQoS0                         ReasonCode = 0x00
	ReasonGrantedQoS1                         ReasonCode = 0x01
	ReasonGrantedQoS2                         ReasonCode = 0x02
	ReasonDisconnectWithWillMessage           ReasonCode = 0x04
	ReasonNoMatchingSubscribers               ReasonCode = 0x10
	ReasonNoSubscriptionExisted               ReasonCode = 0x11
	ReasonContinueAuthentication              ReasonCode = 0x18
	ReasonReAuthenticate                      ReasonCode = 0x19
	ReasonUnspecifiedError                    ReasonCode = 0x80
	ReasonMalformedPacket                     ReasonCode = 0x81
	ReasonProtocolError                       ReasonCode = 0x82
	ReasonImplementationSpecificError         ReasonCode = 0x83
	ReasonUnsupportedProtocolVersion          ReasonCode = 0x84
	ReasonClientIdentifierNotValid            ReasonCode = 0x85
	ReasonBadUserNameOrPassword               ReasonCode = 0x86
	ReasonNotAuthorized                       ReasonCode = 0x87
	ReasonServerUnavailable                   ReasonCode = 0x88
	ReasonServerBusy                          ReasonCode = 0x89
	ReasonBanned                              ReasonCode = 0x8A
	ReasonServerShuttingDown                  ReasonCode = 0x8B
	ReasonBadAuthenticationMethod             ReasonCode = 0x8C
	ReasonKeepAliveTimeout                    ReasonCode = 0x8D
	ReasonSessionTakenOver                    ReasonCode = 0x8E
	ReasonTopicFilterInvalid                  ReasonCode = 0x8F
	ReasonTopicNameInvalid                    ReasonCode = 0x90
	ReasonPacketIdentifierInUse               ReasonCode = 0x91
	ReasonPacketIdentifierNotFound             ReasonCode = 0x92
	ReasonReceiveMaximumExceeded               ReasonCode = 0x93
	ReasonTopicAliasInvalid                    ReasonCode = 0x94
	ReasonPacketTooLarge                       ReasonCode = 0x95
	ReasonMessageRateTooHigh                   ReasonCode = 0x96
	ReasonQuotaExceeded                        ReasonCode = 0x97
	ReasonAdministrativeAction                 ReasonCode = 0x98
	ReasonPayloadFormatInvalid                 ReasonCode = 0x99
	ReasonRetainNotSupported                   ReasonCode = 0x9A
	ReasonQoSNotSupported                      ReasonCode = 0x9B
	ReasonUseAnotherServer                     ReasonCode = 0x9C
	ReasonServerMoved                          ReasonCode = 0x9D
	ReasonSharedSubscriptionsNotSupported      ReasonCode = 0x9E
	ReasonConnectionRateExceeded               ReasonCode = 0x9F
	ReasonMaximumConnectTime                   ReasonCode = 0xA0
	ReasonSubscriptionIdentifiersNotSupported  ReasonCode = 0xA1
	ReasonWildcardSubscriptionsNotSupported    ReasonCode = 0xA2
)

var reasonCodeNames = map[ReasonCode]string{
	ReasonSuccess:                              "Success",
	ReasonGrantedQoS1:                          "GrantedQoS1",
	ReasonGrantedQoS2:                          "GrantedQoS2",
	ReasonDisconnectWithWillMessage:            "DisconnectWithWillMessage",
	ReasonNoMatchingSubscribers:                "NoMatchingSubscribers",
	ReasonNoSubscriptionExisted:                "NoSubscriptionExisted",
	ReasonContinueAuthentication:               "ContinueAuthentication",
	ReasonReAuthenticate:                       "ReAuthenticate",
	ReasonUnspecifiedError:                     "UnspecifiedError",
	ReasonMalformedPacket:                      "MalformedPacket",
	ReasonProtocolError:                        "ProtocolError",
	ReasonImplementationSpecificError:          "ImplementationSpecificError",
	ReasonUnsupportedProtocolVersion:           "UnsupportedProtocolVersion",
	ReasonClientIdentifierNotValid:             "ClientIdentifierNotValid",
	ReasonBadUserNameOrPassword:                "BadUserNameOrPassword",
	ReasonNotAuthorized:                        "NotAuthorized",
	ReasonServerUnavailable:                    "ServerUnavailable",
	ReasonServerBusy:                           "ServerBusy",
	ReasonBanned:                               "Banned",
	ReasonServerShuttingDown:                   "ServerShuttingDown",
	ReasonBadAuthenticationMethod:              "BadAuthenticationMethod",
	ReasonKeepAliveTimeout:                     "KeepAliveTimeout",
	ReasonSessionTakenOver:                     "SessionTakenOver",
	ReasonTopicFilterInvalid:                   "TopicFilterInvalid",
	ReasonTopicNameInvalid:                     "TopicNameInvalid",
	ReasonPacketIdentifierInUse:                "PacketIdentifierInUse",
	ReasonPacketIdentifierNotFound:              "PacketIdentifierNotFound",
	ReasonReceiveMaximumExceeded:                "ReceiveMaximumExceeded",
	ReasonTopicAliasInvalid:                     "TopicAliasInvalid",
	ReasonPacketTooLarge:                        "PacketTooLarge",
	ReasonMessageRateTooHigh:                    "MessageRateTooHigh",
	ReasonQuotaExceeded:                         "QuotaExceeded",
	ReasonAdministrativeAction:                  "AdministrativeAction",
	ReasonPayloadFormatInvalid:                  "PayloadFormatInvalid",
	ReasonRetainNotSupported:                    "RetainNotSupported",
	ReasonQoSNotSupported:                       "QoSNotSupported",
	ReasonUseAnotherServer:                      "UseAnotherServer",
	ReasonServerMoved:                           "ServerMoved",
	ReasonSharedSubscriptionsNotSupported:       "SharedSubscriptionsNotSupported",
	ReasonConnectionRateExceeded:                "ConnectionRateExceeded",
	ReasonMaximumConnectTime:                    "MaximumConnectTime",
	ReasonSubscriptionIdentifiersNotSupported:   "SubscriptionIdentifiersNotSupported",
	ReasonWildcardSubscriptionsNotSupported:     "WildcardSubscriptionsNotSupported",
}

func (rc ReasonCode) String() string {
	if name, ok := reasonCodeNames[rc]; ok {
		return name
	}
	return "UNKNOWN"
}

// reasonCodeLegality lists, for each packet type that carries a reason code,
// the values that packet is allowed to carry. A byte/context pair not found
// here is a protocol error.
var reasonCodeLegality = map[PacketType]map[ReasonCode]bool{
	TypeConnack: setOf(
		ReasonSuccess, ReasonUnspecifiedError, ReasonMalformedPacket, ReasonProtocolError,
		ReasonImplementationSpecificError, ReasonUnsupportedProtocolVersion,
		ReasonClientIdentifierNotValid, ReasonBadUserNameOrPassword, ReasonNotAuthorized,
		ReasonServerUnavailable, ReasonServerBusy, ReasonBanned, ReasonBadAuthenticationMethod,
		ReasonTopicNameInvalid, ReasonPacketTooLarge, ReasonQuotaExceeded,
		ReasonPayloadFormatInvalid, ReasonRetainNotSupported, ReasonQoSNotSupported,
		ReasonUseAnotherServer, ReasonServerMoved, ReasonConnectionRateExceeded,
	),
	TypePuback: setOf(
		ReasonSuccess, ReasonNoMatchingSubscribers, ReasonUnspecifiedError,
		ReasonImplementationSpecificError, ReasonNotAuthorized, ReasonTopicNameInvalid,
		ReasonPacketIdentifierInUse, ReasonQuotaExceeded, ReasonPayloadFormatInvalid,
	),
	TypePubrec: setOf(
		ReasonSuccess, ReasonNoMatchingSubscribers, ReasonUnspecifiedError,
		ReasonImplementationSpecificError, ReasonNotAuthorized, ReasonTopicNameInvalid,
		ReasonPacketIdentifierInUse, ReasonQuotaExceeded, ReasonPayloadFormatInvalid,
	),
	TypePubrel: setOf(ReasonSuccess, ReasonPacketIdentifierNotFound),
	TypePubcomp: setOf(
		ReasonSuccess, ReasonPacketIdentifierNotFound,
	),
	TypeSuback: setOf(
		ReasonGrantedQoS0, ReasonGrantedQoS1, ReasonGrantedQoS2, ReasonUnspecifiedError,
		ReasonImplementationSpecificError, ReasonNotAuthorized, ReasonTopicFilterInvalid,
		ReasonPacketIdentifierInUse, ReasonQuotaExceeded, ReasonSharedSubscriptionsNotSupported,
		ReasonSubscriptionIdentifiersNotSupported, ReasonWildcardSubscriptionsNotSupported,
	),
	TypeUnsuback: setOf(
		ReasonSuccess, ReasonNoSubscriptionExisted, ReasonUnspecifiedError,
		ReasonImplementationSpecificError, ReasonNotAuthorized, ReasonTopicFilterInvalid,
		ReasonPacketIdentifierInUse,
	),
	TypeDisconnect: setOf(
		ReasonNormalDisconnection, ReasonDisconnectWithWillMessage, ReasonUnspecifiedError,
		ReasonMalformedPacket, ReasonProtocolError, ReasonImplementationSpecificError,
		ReasonNotAuthorized, ReasonServerBusy, ReasonServerShuttingDown,
		ReasonKeepAliveTimeout, ReasonSessionTakenOver, ReasonTopicFilterInvalid,
		ReasonTopicNameInvalid, ReasonReceiveMaximumExceeded, ReasonTopicAliasInvalid,
		ReasonPacketTooLarge, ReasonMessageRateTooHigh, ReasonQuotaExceeded,
		ReasonAdministrativeAction, ReasonPayloadFormatInvalid, ReasonRetainNotSupported,
		ReasonQoSNotSupported, ReasonUseAnotherServer, ReasonServerMoved,
		ReasonSharedSubscriptionsNotSupported, ReasonConnectionRateExceeded,
		ReasonMaximumConnectTime, ReasonSubscriptionIdentifiersNotSupported,
		ReasonWildcardSubscriptionsNotSupported,
	),
	TypeAuth: setOf(ReasonSuccess, ReasonContinueAuthentication, ReasonReAuthenticate),
}

func setOf(codes ...ReasonCode) map[ReasonCode]bool {
	m := make(map[ReasonCode]bool, len(codes))
	for _, c := range codes {
		m[c] = true
	}
	return m
}

// readReasonCode decodes a single reason-code byte and checks it against the
// legal domain for the given containing packet type.
func readReasonCode(r io.Reader, pt PacketType) (ReasonCode, error) {
	b, err := readByteField(r)
	if err != nil {
		return 0, ioError(err, "read reason code")
	}
	rc := ReasonCode(b)
	if legal, ok := reasonCodeLegality[pt]; ok && !legal[rc] {
		wirelog.Debugf("rejecting reason code %#x on packet type %s", b, pt)
		return rc, protocolErrorf("%s: reason code %#x not valid for this packet type", pt, b)
	}
	return rc, nil
}

func writeReasonCode(w io.Writer, rc ReasonCode) error {
	return writeByteField(w, byte(rc))
}
