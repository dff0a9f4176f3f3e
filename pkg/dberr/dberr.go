// Package dberr 将数据库驱动返回的错误归类为连接、查询、序列化三类，
// 便于在日志和指标中区分故障来源，对外仍然返回统一的错误信息。
package dberr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"net"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// Kind 错误类别
type Kind int

const (
	KindUnknown Kind = iota
	KindConnection
	KindQuery
	KindSerialization
)

func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection"
	case KindQuery:
		return "query"
	case KindSerialization:
		return "serialization"
	default:
		return "unknown"
	}
}

// 视为连接问题的 MySQL 服务端错误码
var mysqlConnectionCodes = map[uint16]struct{}{
	1040: {}, // ER_CON_COUNT_ERROR
	1044: {}, // ER_DBACCESS_DENIED_ERROR
	1045: {}, // ER_ACCESS_DENIED_ERROR
	1049: {}, // ER_BAD_DB_ERROR
	1129: {}, // ER_HOST_IS_BLOCKED
	1130: {}, // ER_HOST_NOT_PRIVILEGED
}

// Error 带操作名和类别的数据库错误
type Error struct {
	Op   string
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return e.Op + ": " + e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap 归类并包装错误，err 为 nil 时返回 nil
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: Classify(err), Err: err}
}

// Serialization 包装序列化阶段的错误
func Serialization(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindSerialization, Err: err}
}

// KindOf 返回错误类别，已包装的错误直接取其类别
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Classify(err)
}

// Classify 根据驱动/标准库错误判断类别
func Classify(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var (
		mysqlErr       *mysql.MySQLError
		netErr         net.Error
		marshalErr     *json.MarshalerError
		unsupportedTyp *json.UnsupportedTypeError
		unsupportedVal *json.UnsupportedValueError
	)

	switch {
	case errors.As(err, &marshalErr), errors.As(err, &unsupportedTyp), errors.As(err, &unsupportedVal):
		return KindSerialization
	case errors.Is(err, driver.ErrBadConn),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, mysql.ErrInvalidConn),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled),
		errors.As(err, &netErr):
		return KindConnection
	case errors.As(err, &mysqlErr):
		if _, ok := mysqlConnectionCodes[mysqlErr.Number]; ok {
			return KindConnection
		}
		return KindQuery
	case errors.Is(err, gorm.ErrRecordNotFound),
		errors.Is(err, gorm.ErrInvalidField),
		errors.Is(err, gorm.ErrInvalidData),
		errors.Is(err, gorm.ErrUnsupportedRelation),
		errors.Is(err, gorm.ErrPrimaryKeyRequired),
		errors.Is(err, sql.ErrNoRows):
		return KindQuery
	}

	// database/sql 未导出该哨兵错误，只能按文本匹配
	if strings.Contains(err.Error(), "sql: database is closed") {
		return KindConnection
	}

	return KindUnknown
}

// Connection 包装客户端构建/连接阶段的错误
func Connection(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: KindConnection, Err: err}
}
