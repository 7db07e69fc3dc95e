package utils

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"time"

	"tonvault/internal/consts"
)

// DayKey 日历日key（UTC），奖励分桶按这个key计数
func DayKey(t time.Time) string {
	return t.UTC().Format(consts.DateLayout)
}

// JsonTime 统一的时间序列化格式，gorm实体字段使用
type JsonTime time.Time

func (jt JsonTime) MarshalJSON() ([]byte, error) {
	t := time.Time(jt)
	if t.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(strconv.Quote(t.Format(consts.TimeLayout))), nil
}

func (jt *JsonTime) UnmarshalJSON(data []byte) error {
	s, err := strconv.Unquote(string(data))
	if err != nil {
		return err
	}
	if s == "" {
		*jt = JsonTime(time.Time{})
		return nil
	}
	t, err := time.ParseInLocation(consts.TimeLayout, s, time.Local)
	if err != nil {
		return err
	}
	*jt = JsonTime(t)
	return nil
}

// Value 实现driver.Valuer，gorm写库用
func (jt JsonTime) Value() (driver.Value, error) {
	t := time.Time(jt)
	if t.IsZero() {
		return nil, nil
	}
	return t, nil
}

// Scan 实现sql.Scanner，gorm读库用
func (jt *JsonTime) Scan(v interface{}) error {
	if v == nil {
		*jt = JsonTime(time.Time{})
		return nil
	}
	t, ok := v.(time.Time)
	if !ok {
		return fmt.Errorf("cannot scan %T into JsonTime", v)
	}
	*jt = JsonTime(t)
	return nil
}
