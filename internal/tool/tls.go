package tool

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/sirupsen/logrus"
)

func IsFileExists(filename string) (bool, error) {
	_, err := os.Stat(filename)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// EnsureTlsCertificate generates a self-signed certificate and its key unless
// both files already exist.
func EnsureTlsCertificate(organization string, commonName string, keyFilename string, certFilename string, hostnames []string) error {
	existCert, err := IsFileExists(certFilename)
	if err != nil {
		return err
	}
	existKey, err := IsFileExists(keyFilename)
	if err != nil {
		return err
	}
	if existCert && existKey {
		return nil
	}

	logrus.Info("Missing cert and key files, generating them ...")
	if err := GenerateTlsCertificate(organization, commonName, keyFilename, certFilename, hostnames); err != nil {
		return err
	}
	logrus.Info("Self-signed cert and key files generated")
	return nil
}

func GenerateTlsCertificate(organization string, commonName string, keyFilename string, certFilename string, hostnames []string) error {
	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return err
	}

	serialNumber, err := rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 128))
	if err != nil {
		return err
	}

	notBefore := time.Now()
	template := x509.Certificate{
		SerialNumber: serialNumber,
		Subject: pkix.Name{
			Organization: []string{organization},
			CommonName:   commonName,
		},
		NotBefore:             notBefore,
		NotAfter:              notBefore.AddDate(10, 0, 0),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
	}
	for _, h := range hostnames {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	derBytes, err := x509.CreateCertificate(rand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return err
	}

	keyBytes, err := x509.MarshalECPrivateKey(key)
	if err != nil {
		return err
	}
	if err := writePem(keyFilename, "EC PRIVATE KEY", keyBytes, 0600); err != nil {
		return err
	}
	return writePem(certFilename, "CERTIFICATE", derBytes, 0644)
}

func writePem(filename string, blockType string, b []byte, perm os.FileMode) error {
	return os.WriteFile(filename, pem.EncodeToMemory(&pem.Block{Type: blockType, Bytes: b}), perm)
}
