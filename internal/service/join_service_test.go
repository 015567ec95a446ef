package service

import (
	"testing"

	"github.com/watchparty/sync-service/internal/domain"
	"github.com/watchparty/sync-service/internal/event"
)

func TestRequest_MissingRoomRejectsRequesterOnly(t *testing.T) {
	f := newFixture()

	f.joins.Request("nope", "p1", "bob")

	rej := f.bc.one(t, event.TypeJoinRejected)
	if rej.To != "p1" || rej.Ev.Payload != msgRoomMissing {
		t.Fatalf("join_rejected: %+v", rej)
	}
	if len(f.bc.events) != 1 {
		t.Fatalf("failure leaked beyond requester: %+v", f.bc.events)
	}
}

func TestRequest_QueuesAndNotifiesHost(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")

	f.joins.Request(roomID, "p1", "bob")

	pend := f.bc.one(t, event.TypeJoinPending)
	if pend.To != "p1" || pend.Ev.Payload != msgPendingSent {
		t.Fatalf("join_pending: %+v", pend)
	}

	req := f.bc.one(t, event.TypeNewJoinRequest)
	if req.To != "h1" {
		t.Fatalf("new_join_request target: %+v", req)
	}
	var nr domain.PendingRequest
	decodeInto(t, req.Ev.Payload, &nr)
	if nr.ID != "p1" || nr.DisplayName != "bob" {
		t.Fatalf("new_join_request payload: %+v", nr)
	}

	// pending-вид обновляется только у хоста
	update := f.bc.one(t, event.TypeRoomDataUpdate)
	if update.To != "h1" {
		t.Fatalf("room_data_update target: %+v", update)
	}
	var rd event.RoomDataPayload
	decodeInto(t, update.Ev.Payload, &rd)
	if len(rd.Pending) != 1 || rd.Pending[0].DisplayName != "bob" {
		t.Fatalf("pending view: %+v", rd.Pending)
	}
}

func TestRequest_DuplicateKeepsSinglePendingEntry(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")
	f.joins.Request(roomID, "p1", "bob")
	f.bc.reset()

	f.joins.Request(roomID, "p1", "bob")

	// повтор: только напоминание просителю, хост не дёргается
	pend := f.bc.one(t, event.TypeJoinPending)
	if pend.To != "p1" || pend.Ev.Payload != msgPendingStill {
		t.Fatalf("join_pending: %+v", pend)
	}
	f.bc.none(t, event.TypeNewJoinRequest)

	snap, _ := f.reg.Snapshot(roomID)
	if len(snap.Pending) != 1 {
		t.Fatalf("pending entries: %+v", snap.Pending)
	}
}

func TestRequest_ExistingMemberGetsSnapshotWithoutApproval(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")
	f.admit(t, roomID, "h1", "p1", "bob")
	f.chat.Post("p1", "hi")
	f.bc.reset()

	f.joins.Request(roomID, "p1", "bob")

	appr := f.bc.one(t, event.TypeJoinApproved)
	if appr.To != "p1" {
		t.Fatalf("join_approved target: %+v", appr)
	}
	var p event.JoinApprovedPayload
	decodeInto(t, appr.Ev.Payload, &p)
	if p.VideoURL != "v1" || len(p.Users) != 2 || len(p.Messages) != 1 {
		t.Fatalf("rejoin snapshot: %+v", p)
	}
	f.bc.none(t, event.TypeNewJoinRequest)
	f.bc.none(t, event.TypeJoinPending)
}

func TestApprove_DeliversSnapshotAndRebroadcastsRoster(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")
	f.chat.Post("h1", "welcome")
	f.joins.Request(roomID, "p1", "bob")
	f.bc.reset()

	f.joins.Approve(roomID, "h1", "p1")

	appr := f.bc.one(t, event.TypeJoinApproved)
	if appr.To != "p1" {
		t.Fatalf("join_approved target: %+v", appr)
	}
	var p event.JoinApprovedPayload
	decodeInto(t, appr.Ev.Payload, &p)
	if p.VideoURL != "v1" {
		t.Fatalf("snapshot url: %+v", p)
	}
	if p.VideoState != (domain.VideoState{}) {
		t.Fatalf("snapshot state: %+v", p.VideoState)
	}
	if len(p.Users) != 2 {
		t.Fatalf("snapshot users: %+v", p.Users)
	}
	// полный лог чата на момент одобрения
	if len(p.Messages) != 1 || p.Messages[0].Text != "welcome" {
		t.Fatalf("snapshot messages: %+v", p.Messages)
	}

	joined := f.bc.byType(event.TypeUserJoined)
	if len(joined) != 2 { // вся комната, включая нового участника
		t.Fatalf("user_joined fanout: %+v", joined)
	}
	updates := f.bc.byType(event.TypeRoomDataUpdate)
	if len(updates) != 2 {
		t.Fatalf("room_data_update fanout: %+v", updates)
	}
}

func TestApprove_NotHost(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")
	f.joins.Request(roomID, "p1", "bob")
	f.joins.Request(roomID, "p2", "eve")
	f.bc.reset()

	f.joins.Approve(roomID, "p2", "p1")

	errEv := f.bc.one(t, event.TypeError)
	if errEv.To != "p2" || errEv.Ev.Payload != msgNotHost {
		t.Fatalf("error_message: %+v", errEv)
	}
	f.bc.none(t, event.TypeJoinApproved)

	snap, _ := f.reg.Snapshot(roomID)
	if len(snap.Pending) != 2 || len(snap.Participants) != 1 {
		t.Fatalf("room mutated: %+v", snap)
	}
}

func TestApprove_RequestNotFound(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")

	f.joins.Approve(roomID, "h1", "ghost")

	errEv := f.bc.one(t, event.TypeError)
	if errEv.To != "h1" || errEv.Ev.Payload != msgRequestGone {
		t.Fatalf("error_message: %+v", errEv)
	}
}

func TestReject_NotifiesTargetAndHostView(t *testing.T) {
	f := newFixture()
	roomID := f.createRoom(t, "h1", "alice", "v1")
	f.joins.Request(roomID, "p1", "bob")
	f.bc.reset()

	f.joins.Reject(roomID, "h1", "p1")

	rej := f.bc.one(t, event.TypeJoinRejected)
	if rej.To != "p1" || rej.Ev.Payload != msgRejectedByHost {
		t.Fatalf("join_rejected: %+v", rej)
	}

	update := f.bc.one(t, event.TypeRoomDataUpdate)
	if update.To != "h1" {
		t.Fatalf("pending view target: %+v", update)
	}
	var rd event.RoomDataPayload
	decodeInto(t, update.Ev.Payload, &rd)
	if len(rd.Pending) != 0 {
		t.Fatalf("pending after reject: %+v", rd.Pending)
	}

	// отклонённый никуда не добавлен
	if _, ok := f.reg.FindByHandle("p1"); ok {
		t.Fatalf("rejected handle became a participant")
	}
}
