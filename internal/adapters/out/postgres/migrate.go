package postgres

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"restaurant/internal/adapters/out/postgres/orderrepo"
	"restaurant/internal/adapters/out/postgres/reservationrepo"
	"restaurant/internal/adapters/out/postgres/staffrepo"
	"restaurant/internal/core/domain/model/order"

	"gorm.io/gorm"
)

var channelPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]{0,62}$`)

// maxNotifyPayload stays below the 8000 byte limit of pg_notify.
const maxNotifyPayload = 7900

// notifyFunction publishes every row change as a JSON payload on the channel
// given as the first trigger argument. Inserts and updates carry the columns
// named by the remaining arguments; deletes carry no record. A record that
// would push the payload over maxNotifyPayload is left out so the write
// itself never fails.
var notifyFunction = fmt.Sprintf(`
CREATE OR REPLACE FUNCTION notify_table_change() RETURNS trigger AS $$
DECLARE
	row_data jsonb;
	payload  jsonb;
	columns  jsonb;
	message  text;
BEGIN
	IF TG_OP = 'DELETE' THEN
		row_data := to_jsonb(OLD);
	ELSE
		row_data := to_jsonb(NEW);
	END IF;

	payload := jsonb_build_object(
		'type', TG_OP,
		'table', TG_TABLE_NAME,
		'tenant_id', row_data ->> 'restaurant_id',
		'id', row_data ->> 'id'
	);
	message := payload::text;

	IF TG_OP <> 'DELETE' AND TG_NARGS > 1 THEN
		SELECT jsonb_object_agg(key, value) INTO columns
		FROM jsonb_each(row_data)
		WHERE key = ANY (TG_ARGV[1:TG_NARGS - 1]);

		IF columns IS NOT NULL
			AND octet_length((payload || jsonb_build_object('record', columns))::text) < %d THEN
			message := (payload || jsonb_build_object('record', columns))::text;
		END IF;
	END IF;

	PERFORM pg_notify(TG_ARGV[0], message);
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`, maxNotifyPayload)

// notifiedColumns are the columns sent with insert and update notifications.
// Reservations are re-queried on every change, so they send none.
var notifiedColumns = map[string][]string{
	"orders": {
		order.ColumnNumber,
		order.ColumnCustomerName,
		order.ColumnTableNumber,
		order.ColumnTotal,
		order.ColumnStatus,
		order.ColumnVersion,
	},
	"reservations": nil,
}

// Migrate creates the restaurant tables and installs the change
// notification triggers on orders and reservations for channel.
func Migrate(ctx context.Context, db *gorm.DB, channel string) error {
	if !channelPattern.MatchString(channel) {
		return fmt.Errorf("invalid notification channel %q", channel)
	}

	conn := db.WithContext(ctx)
	if err := conn.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&reservationrepo.ReservationDTO{},
		&staffrepo.StaffDTO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := conn.Exec(notifyFunction).Error; err != nil {
		return fmt.Errorf("install notify function: %w", err)
	}

	for _, table := range []string{"orders", "reservations"} {
		trigger := table + "_notify_change"
		args := append([]string{channel}, notifiedColumns[table]...)
		statements := []string{
			fmt.Sprintf(`DROP TRIGGER IF EXISTS %s ON %s`, trigger, table),
			fmt.Sprintf(`CREATE TRIGGER %s AFTER INSERT OR UPDATE OR DELETE ON %s
				FOR EACH ROW EXECUTE FUNCTION notify_table_change('%s')`, trigger, table, strings.Join(args, "', '")),
		}
		for _, stmt := range statements {
			if err := conn.Exec(stmt).Error; err != nil {
				return fmt.Errorf("install trigger on %s: %w", table, err)
			}
		}
	}

	return nil
}
